// Package dataset loads the hourly ridership CSV into an immutable
// in-memory dataset shared by all requests.
package dataset

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nycdash/ridership-dashboard/internal/models"
)

// TimestampLayout matches the transit_timestamp column of the MTA hourly
// ridership export, e.g. "12/02/2024 08:00:00 AM".
const TimestampLayout = "1/2/2006 03:04:05 PM"

// requiredColumns must all be present in the CSV header. Extra columns
// (station_complex_id, transit_mode, Georeference, ...) are ignored.
var requiredColumns = []string{
	"transit_timestamp",
	"station_complex",
	"borough",
	"payment_method",
	"fare_class_category",
	"ridership",
	"transfers",
	"latitude",
	"longitude",
}

var numericTypes = map[string]series.Type{
	"ridership": series.Float,
	"transfers": series.Float,
	"latitude":  series.Float,
	"longitude": series.Float,
}

// Dataset holds the loaded ridership records. It is read-only after Load
// and safe for concurrent use.
type Dataset struct {
	frame    dataframe.DataFrame
	records  []models.RidershipRecord
	boroughs []string
	skipped  int
}

// Load reads a ridership CSV from disk. A missing file or a header without
// one of the required columns is a fatal startup error for the caller.
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ridership file: %w", err)
	}
	defer file.Close()

	d, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return d, nil
}

// Read parses ridership CSV data from r.
func Read(r io.Reader) (*Dataset, error) {
	raw := dataframe.ReadCSV(r, dataframe.HasHeader(true), dataframe.WithTypes(numericTypes))
	if raw.Error() != nil {
		return nil, fmt.Errorf("reading CSV: %w", raw.Error())
	}

	if err := checkColumns(raw.Names()); err != nil {
		return nil, err
	}

	records, skipped := materialize(raw)
	if len(records) == 0 {
		return nil, fmt.Errorf("no usable rows in ridership data (%d skipped)", skipped)
	}

	d := &Dataset{
		frame:   frameFromRecords(records),
		records: records,
		skipped: skipped,
	}
	if err := d.frame.Error(); err != nil {
		return nil, fmt.Errorf("building dataframe: %w", err)
	}

	seen := make(map[string]bool)
	for _, rec := range records {
		if !seen[rec.Borough] {
			seen[rec.Borough] = true
			d.boroughs = append(d.boroughs, rec.Borough)
		}
	}
	sort.Strings(d.boroughs)

	return d, nil
}

func checkColumns(names []string) error {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return fmt.Errorf("ridership data is missing column %q", col)
		}
	}
	return nil
}

// materialize converts the parsed frame into typed records, dropping rows
// whose timestamp or counts did not survive type coercion.
func materialize(df dataframe.DataFrame) ([]models.RidershipRecord, int) {
	var (
		timestamps = df.Col("transit_timestamp").Records()
		stations   = df.Col("station_complex").Records()
		boroughs   = df.Col("borough").Records()
		methods    = df.Col("payment_method").Records()
		fares      = df.Col("fare_class_category").Records()
		ridership  = df.Col("ridership").Float()
		transfers  = df.Col("transfers").Float()
		lats       = df.Col("latitude").Float()
		lngs       = df.Col("longitude").Float()
	)

	records := make([]models.RidershipRecord, 0, df.Nrow())
	skipped := 0

	for i := 0; i < df.Nrow(); i++ {
		ts, err := time.Parse(TimestampLayout, timestamps[i])
		if err != nil {
			skipped++
			continue
		}
		if math.IsNaN(ridership[i]) || math.IsNaN(transfers[i]) ||
			math.IsNaN(lats[i]) || math.IsNaN(lngs[i]) {
			skipped++
			continue
		}
		if stations[i] == "" || boroughs[i] == "" {
			skipped++
			continue
		}

		records = append(records, models.RidershipRecord{
			Timestamp:     ts,
			Station:       stations[i],
			Borough:       boroughs[i],
			PaymentMethod: methods[i],
			FareClass:     fares[i],
			Ridership:     ridership[i],
			Transfers:     transfers[i],
			Latitude:      lats[i],
			Longitude:     lngs[i],
		})
	}

	return records, skipped
}

// frameFromRecords rebuilds the aggregation frame from the surviving rows so
// the frame and the record slice always describe the same data.
func frameFromRecords(records []models.RidershipRecord) dataframe.DataFrame {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{
		"station_complex", "borough", "payment_method", "fare_class_category",
		"ridership", "transfers", "latitude", "longitude",
	})
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Station,
			rec.Borough,
			rec.PaymentMethod,
			rec.FareClass,
			strconv.FormatFloat(rec.Ridership, 'f', -1, 64),
			strconv.FormatFloat(rec.Transfers, 'f', -1, 64),
			strconv.FormatFloat(rec.Latitude, 'f', -1, 64),
			strconv.FormatFloat(rec.Longitude, 'f', -1, 64),
		})
	}
	return dataframe.LoadRecords(rows,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(numericTypes),
	)
}

// Frame returns the dataframe scoped to a borough. An empty borough means
// the whole dataset.
func (d *Dataset) Frame(borough string) dataframe.DataFrame {
	if borough == "" {
		return d.frame
	}
	return d.frame.Filter(dataframe.F{
		Colname:    "borough",
		Comparator: series.Eq,
		Comparando: borough,
	})
}

// Records returns the typed records scoped to a borough. An empty borough
// means the whole dataset; callers must not mutate the full slice.
func (d *Dataset) Records(borough string) []models.RidershipRecord {
	if borough == "" {
		return d.records
	}
	var out []models.RidershipRecord
	for _, rec := range d.records {
		if rec.Borough == borough {
			out = append(out, rec)
		}
	}
	return out
}

// Boroughs returns the distinct boroughs in the dataset, sorted.
func (d *Dataset) Boroughs() []string {
	out := make([]string, len(d.boroughs))
	copy(out, d.boroughs)
	return out
}

// HasBorough reports whether the dataset contains records for borough.
func (d *Dataset) HasBorough(borough string) bool {
	for _, b := range d.boroughs {
		if b == borough {
			return true
		}
	}
	return false
}

// Len returns the number of loaded records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Skipped returns the number of malformed rows dropped during load.
func (d *Dataset) Skipped() int {
	return d.skipped
}
