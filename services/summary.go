package services

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"col-heatmap/models"
	"col-heatmap/utils"
)

// SummaryService computes and prints the end-of-run report.
type SummaryService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger, out: os.Stdout}
}

func (s *SummaryService) Generate(cov *models.Coverage) *models.SummaryReport {
	report := &models.SummaryReport{
		CitiesByYear: make(map[int]int),
	}
	if cov == nil {
		return report
	}

	report.TotalTargets = len(cov.Targets)
	report.Complete = cov.Complete
	report.Missing = cov.Missing()

	resolved := cov.Resolved()
	report.ResolvedCount = len(resolved)
	if len(resolved) == 0 {
		return report
	}

	for _, c := range resolved {
		report.CitiesByYear[c.Year]++
	}

	// Most expensive first; ties keep target order.
	ranked := make([]models.CityIndex, len(resolved))
	copy(ranked, resolved)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Index > ranked[j].Index
	})
	report.Ranked = ranked

	var total float64
	for _, c := range ranked {
		total += c.Index
	}
	report.AverageIndex = round2(total / float64(len(ranked)))
	report.MaxIndex = round2(ranked[0].Index)
	report.MinIndex = round2(ranked[len(ranked)-1].Index)
	report.MostExpensive = &ranked[0]
	report.Cheapest = &ranked[len(ranked)-1]

	return report
}

func (s *SummaryService) Print(r *models.SummaryReport) {
	w := s.out
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  COST OF LIVING IN MAJOR CITIES OF TURKEY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Coverage\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Target cities  : \033[1m%d\033[0m\n", r.TotalTargets)
	fmt.Fprintf(w, "  Resolved       : \033[1m%d\033[0m\n", r.ResolvedCount)
	if r.Complete {
		fmt.Fprintf(w, "  Status         : \033[1;32mcomplete\033[0m\n")
	} else {
		fmt.Fprintf(w, "  Status         : \033[1;31mincomplete\033[0m\n")
	}
	if len(r.CitiesByYear) > 0 {
		years := make([]int, 0, len(r.CitiesByYear))
		for y := range r.CitiesByYear {
			years = append(years, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(years)))
		for _, y := range years {
			fmt.Fprintf(w, "  From %d      : %d\n", y, r.CitiesByYear[y])
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Index Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.ResolvedCount > 0 {
		fmt.Fprintf(w, "  Average index : \033[1;32m%.2f\033[0m\n", r.AverageIndex)
		fmt.Fprintf(w, "  Minimum index : \033[1;32m%.2f\033[0m (%s)\n", r.MinIndex, r.Cheapest.City)
		fmt.Fprintf(w, "  Maximum index : \033[1;32m%.2f\033[0m (%s)\n", r.MaxIndex, r.MostExpensive.City)
	} else {
		fmt.Fprintf(w, "  No index data available\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Cities by Index (Higher = More Expensive)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Ranked) == 0 {
		fmt.Fprintf(w, "  No cities resolved\n")
	} else {
		for i, c := range r.Ranked {
			bar := strings.Repeat("█", barWidth(c.Index))
			fmt.Fprintf(w, "  \033[1m%2d.\033[0m %-12s %6.2f (%d) %s\n",
				i+1, truncate(c.City, 12), c.Index, c.Year, bar)
		}
	}
	fmt.Fprintln(w)

	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "\033[1;33m  Unresolved Cities\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", strings.Join(r.Missing, ", "))
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

const maxBarWidth = 54

// barWidth is one block per 5 index points, clamped to [0, maxBarWidth].
func barWidth(index float64) int {
	return int(math.Max(0, math.Min(index/5, maxBarWidth)))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
