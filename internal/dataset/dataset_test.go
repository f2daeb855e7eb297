package dataset

import (
	"strings"
	"testing"
	"time"
)

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	d, err := Load("testdata/ridership_sample.csv")
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	return d
}

func TestLoadSample(t *testing.T) {
	d := loadSample(t)

	if d.Len() != 24 {
		t.Errorf("Len() = %d, want 24", d.Len())
	}
	if d.Skipped() != 0 {
		t.Errorf("Skipped() = %d, want 0", d.Skipped())
	}

	rec := d.Records("")[0]
	want := time.Date(2024, time.December, 2, 8, 0, 0, 0, time.UTC)
	if !rec.Timestamp.Equal(want) {
		t.Errorf("first timestamp = %v, want %v", rec.Timestamp, want)
	}
	if rec.Station != "Times Sq-42 St (N,Q,R,W,S,1,2,3,7)" {
		t.Errorf("first station = %q", rec.Station)
	}
	if rec.Ridership != 1200 {
		t.Errorf("first ridership = %f, want 1200", rec.Ridership)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/does-not-exist.csv"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBoroughs(t *testing.T) {
	d := loadSample(t)

	got := d.Boroughs()
	want := []string{"Brooklyn", "Manhattan", "Queens"}
	if len(got) != len(want) {
		t.Fatalf("Boroughs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Boroughs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if !d.HasBorough("Queens") {
		t.Error("HasBorough(Queens) = false")
	}
	if d.HasBorough("Staten Island") {
		t.Error("HasBorough(Staten Island) = true for a dataset without it")
	}
}

func TestRecordsFilterPurity(t *testing.T) {
	d := loadSample(t)

	brooklyn := d.Records("Brooklyn")
	if len(brooklyn) != 9 {
		t.Fatalf("Brooklyn records = %d, want 9", len(brooklyn))
	}
	for _, rec := range brooklyn {
		if rec.Borough != "Brooklyn" {
			t.Errorf("record for %q leaked into Brooklyn scope", rec.Borough)
		}
	}
}

func TestFrameFilter(t *testing.T) {
	d := loadSample(t)

	full := d.Frame("")
	if full.Nrow() != 24 {
		t.Errorf("full frame rows = %d, want 24", full.Nrow())
	}

	queens := d.Frame("Queens")
	if queens.Error() != nil {
		t.Fatalf("frame filter: %v", queens.Error())
	}
	if queens.Nrow() != 4 {
		t.Errorf("Queens frame rows = %d, want 4", queens.Nrow())
	}
}

func TestReadSkipsMalformedRows(t *testing.T) {
	csv := strings.Join([]string{
		"transit_timestamp,station_complex,borough,payment_method,fare_class_category,ridership,transfers,latitude,longitude",
		"12/02/2024 08:00:00 AM,Bedford Av (L),Brooklyn,omny,OMNY - Full Fare,500,20,40.7172,-73.9567",
		"not-a-timestamp,Bedford Av (L),Brooklyn,omny,OMNY - Full Fare,500,20,40.7172,-73.9567",
		"12/02/2024 09:00:00 AM,Bedford Av (L),Brooklyn,omny,OMNY - Full Fare,oops,20,40.7172,-73.9567",
	}, "\n")

	d, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
	if d.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", d.Skipped())
	}
}

func TestReadAllRowsMalformed(t *testing.T) {
	csv := strings.Join([]string{
		"transit_timestamp,station_complex,borough,payment_method,fare_class_category,ridership,transfers,latitude,longitude",
		"nope,Bedford Av (L),Brooklyn,omny,OMNY - Full Fare,500,20,40.7172,-73.9567",
	}, "\n")

	if _, err := Read(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error when no rows survive")
	}
}

func TestReadMissingColumn(t *testing.T) {
	csv := strings.Join([]string{
		"transit_timestamp,station_complex,payment_method,fare_class_category,ridership,transfers,latitude,longitude",
		"12/02/2024 08:00:00 AM,Bedford Av (L),omny,OMNY - Full Fare,500,20,40.7172,-73.9567",
	}, "\n")

	_, err := Read(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for missing borough column")
	}
	if !strings.Contains(err.Error(), "borough") {
		t.Errorf("error %q does not name the missing column", err)
	}
}
