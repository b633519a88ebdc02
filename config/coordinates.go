package config

import "col-heatmap/models"

// CityCoordinates places each known city on the map.
var CityCoordinates = map[string]models.Coordinate{
	"Istanbul":  {Lat: 41.0082, Lon: 28.9784},
	"Ankara":    {Lat: 39.9255, Lon: 32.8663},
	"Izmir":     {Lat: 38.4237, Lon: 27.1428},
	"Bursa":     {Lat: 40.1833, Lon: 29.0667},
	"Antalya":   {Lat: 36.9081, Lon: 30.6956},
	"Adana":     {Lat: 37.0000, Lon: 35.3213},
	"Gaziantep": {Lat: 37.0667, Lon: 37.3833},
	"Konya":     {Lat: 37.8714, Lon: 32.4846},
	"Mersin":    {Lat: 36.8000, Lon: 34.6333},
	"Eskisehir": {Lat: 39.7767, Lon: 30.5206},
	"Samsun":    {Lat: 41.2906, Lon: 36.3358},
	"Kocaeli":   {Lat: 40.7667, Lon: 29.9167},
}
