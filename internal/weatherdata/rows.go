package weatherdata

// forecastRow is the on-disk parquet schema for a forecast file, as laid
// out by the external ingestion daemon.
type forecastRow struct {
	StationID string `parquet:"name=station_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	BeginTime string `parquet:"name=begin_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	EndTime   string `parquet:"name=end_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	MinTemp   int32  `parquet:"name=min_temp, type=INT32"`
	MaxTemp   int32  `parquet:"name=max_temp, type=INT32"`
	WindSpeed int32  `parquet:"name=wind_speed, type=INT32"`
}

// observationRow is the on-disk parquet schema for an observation file.
type observationRow struct {
	StationID        string  `parquet:"name=station_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	StationName      string  `parquet:"name=station_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Latitude         float64 `parquet:"name=latitude, type=DOUBLE"`
	Longitude        float64 `parquet:"name=longitude, type=DOUBLE"`
	GeneratedAt      string  `parquet:"name=generated_at, type=BYTE_ARRAY, convertedtype=UTF8"`
	TemperatureValue float64 `parquet:"name=temperature_value, type=DOUBLE"`
	WindSpeed        int32   `parquet:"name=wind_speed, type=INT32"`
}
