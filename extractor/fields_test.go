package extractor

import "testing"

func TestParseListing_FullListing(t *testing.T) {
	const page = `<html><body><div class="feeditem-ld">
		<h1>Toyota Corolla 2020</h1>
		<span class="price">90,000 ₪</span>
		<span class="mileage">15,000 קמ</span>
		<span class="ownership">יד 1</span>
		<span class="gearbox">רובוטית</span>
		<span class="engine-type">היברידי</span>
	</div></body></html>`

	attrs, err := ParseListing(page)
	if err != nil {
		t.Fatalf("ParseListing() error: %v", err)
	}

	if attrs.Title != "Toyota Corolla 2020" {
		t.Errorf("title = %q", attrs.Title)
	}
	if attrs.Year != 2020 {
		t.Errorf("year = %d, want 2020 (backfilled from title)", attrs.Year)
	}
	if attrs.Price != 90000 {
		t.Errorf("price = %d, want 90000", attrs.Price)
	}
	if attrs.Mileage != 15000 {
		t.Errorf("mileage = %d, want 15000", attrs.Mileage)
	}
	if attrs.Ownership != 1 {
		t.Errorf("ownership = %d, want 1", attrs.Ownership)
	}
	if attrs.Gearbox != "רובוטית" {
		t.Errorf("gearbox = %q", attrs.Gearbox)
	}
	if attrs.EngineType != "היברידי" {
		t.Errorf("engine type = %q", attrs.EngineType)
	}
}

func TestParseListing_PriceSelectorFallback(t *testing.T) {
	// Only the second candidate selector for price matches.
	const page = `<html><body><div class="feeditem-ld">
		<h1>Mazda 3 2018</h1>
		<span class="feeditem-price">75,500 ₪</span>
	</div></body></html>`

	attrs, err := ParseListing(page)
	if err != nil {
		t.Fatalf("ParseListing() error: %v", err)
	}
	if attrs.Price != 75500 {
		t.Errorf("price = %d, want 75500 from the second selector candidate", attrs.Price)
	}
}

func TestParseListing_SkipsEmptyAndZeroCandidates(t *testing.T) {
	// The first price candidate matches but holds no digits; the chain
	// must continue to the data-test-id candidate.
	const page = `<html><body><div class="feeditem-ld">
		<h1>Kia Picanto 2021</h1>
		<span class="price">צרו קשר</span>
		<span data-test-id="price">45,000</span>
	</div></body></html>`

	attrs, err := ParseListing(page)
	if err != nil {
		t.Fatalf("ParseListing() error: %v", err)
	}
	if attrs.Price != 45000 {
		t.Errorf("price = %d, want 45000", attrs.Price)
	}
}

func TestParseListing_DefaultsApplied(t *testing.T) {
	const page = `<html><body><div class="feeditem-ld">
		<h1>Hyundai i10 2019</h1>
		<span class="price">52,000</span>
	</div></body></html>`

	attrs, err := ParseListing(page)
	if err != nil {
		t.Fatalf("ParseListing() error: %v", err)
	}

	if attrs.Ownership != 1 {
		t.Errorf("ownership = %d, want default 1", attrs.Ownership)
	}
	if attrs.Gearbox != defaultGearbox {
		t.Errorf("gearbox = %q, want default %q", attrs.Gearbox, defaultGearbox)
	}
	if attrs.EngineType != defaultEngineType {
		t.Errorf("engine type = %q, want default %q", attrs.EngineType, defaultEngineType)
	}
	if attrs.Mileage != 0 {
		t.Errorf("mileage = %d, want 0 when absent", attrs.Mileage)
	}
}

func TestParseListing_NoYearInTitle(t *testing.T) {
	const page = `<html><body><div class="feeditem-ld">
		<h1>Subaru Impreza</h1>
		<span class="price">30,000</span>
	</div></body></html>`

	attrs, err := ParseListing(page)
	if err != nil {
		t.Fatalf("ParseListing() error: %v", err)
	}
	if attrs.Year != 0 {
		t.Errorf("year = %d, want 0 when the title has no year", attrs.Year)
	}
}

func TestParseListing_OutsideContainerIgnored(t *testing.T) {
	// Elements outside .feeditem-ld must not leak into the attributes.
	const page = `<html><body>
		<h1>Site-wide banner 1999</h1>
		<span class="price">1</span>
		<div class="feeditem-ld"><h1>Honda Civic 2017</h1><span class="price">68,000</span></div>
	</body></html>`

	attrs, err := ParseListing(page)
	if err != nil {
		t.Fatalf("ParseListing() error: %v", err)
	}
	if attrs.Title != "Honda Civic 2017" {
		t.Errorf("title = %q, matched outside the listing container", attrs.Title)
	}
	if attrs.Price != 68000 {
		t.Errorf("price = %d, want 68000", attrs.Price)
	}
}

func TestDigitsOnly(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"90,000 ₪", 90000},
		{"15,000 קמ", 15000},
		{"יד 1", 1},
		{"no digits", 0},
		{"", 0},
		{"3", 3},
	}
	for _, tt := range tests {
		if got := digitsOnly(tt.in); got != tt.want {
			t.Errorf("digitsOnly(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
