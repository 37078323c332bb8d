// Package seed generates synthetic sales CSV files for local development.
//
// The generated data is shaped like real retail traffic: a handful of stores,
// a small product catalog, retail seasonality peaking in November/December,
// price jitter, tiered discounts, and a sprinkle of exact duplicates and
// dirty whitespace so a fresh checkout can exercise deduplication and
// normalization end to end.
package seed

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type storeDef struct {
	name  string
	city  string
	state string
}

type productDef struct {
	sku       string
	name      string
	category  string
	basePrice float64
}

var stores = []storeDef{
	{"Loja Centro SP", "São Paulo", "SP"},
	{"Loja Shopping RJ", "Rio de Janeiro", "RJ"},
	{"Loja Asa Norte", "Brasília", "DF"},
	{"Loja Batel", "Curitiba", "PR"},
	{"Loja Savassi", "Belo Horizonte", "MG"},
}

var products = []productDef{
	{"SKU-001", "Mouse Sem Fio", "Periféricos", 49.90},
	{"SKU-002", "Teclado Mecânico", "Periféricos", 189.90},
	{"SKU-003", "Hub USB-C", "Acessórios", 79.90},
	{"SKU-004", "Suporte Monitor", "Mobiliário", 129.90},
	{"SKU-005", "Webcam Full HD", "Periféricos", 199.90},
	{"SKU-006", "Capa Notebook 15\"", "Acessórios", 59.90},
	{"SKU-007", "Headset Gamer", "Áudio", 249.90},
	{"SKU-008", "Caixa de Som Bluetooth", "Áudio", 159.90},
	{"SKU-009", "Mousepad Gamer XL", "Acessórios", 89.90},
	{"SKU-010", "Cabo HDMI 2m", "Cabos", 34.90},
	{"SKU-011", "Carregador USB-C 65W", "Energia", 119.90},
	{"SKU-012", "SSD Externo 1TB", "Armazenamento", 399.90},
	{"SKU-013", "Pen Drive 128GB", "Armazenamento", 69.90},
	{"SKU-014", "Filtro de Tela Privacidade", "Acessórios", 149.90},
	{"SKU-015", "Luz LED para Mesa", "Iluminação", 179.90},
}

// seasonality multiplies daily volume per month; November and December carry
// the Black Friday / holiday peaks.
var seasonality = [13]float64{0, 0.7, 0.75, 0.85, 0.9, 1.0, 0.95, 0.8, 0.85, 1.0, 1.1, 1.4, 1.6}

// Options controls generation.
type Options struct {
	// Year is the calendar year the sales span.
	Year int

	// MaxPerStoreDay caps transactions per store per day (scaled by
	// seasonality; some store-days generate none).
	MaxPerStoreDay int

	// Seed feeds the random source; a fixed seed reproduces the same file.
	Seed int64

	// Dirty adds realistic noise: duplicated rows and stray whitespace
	// around text fields.
	Dirty bool
}

// header is the canonical column order of generated files.
var header = []string{
	"sale_date", "store_name", "city", "state",
	"sku", "product_name", "category",
	"quantity", "unit_price", "discount",
}

// Generate writes a synthetic sales CSV to path and returns the number of
// data rows written. Deterministic for a fixed Options.Seed.
func Generate(path string, opts Options) (int, error) {
	if opts.Year == 0 {
		opts.Year = time.Now().Year()
	}
	if opts.MaxPerStoreDay <= 0 {
		opts.MaxPerStoreDay = 3
	}

	rows := generateRows(opts)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush output: %w", err)
	}

	return len(rows), nil
}

func generateRows(opts Options) [][]string {
	rng := rand.New(rand.NewSource(opts.Seed))

	var rows [][]string
	start := time.Date(opts.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(opts.Year, time.December, 31, 0, 0, 0, 0, time.UTC)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		mult := seasonality[day.Month()]

		for _, st := range stores {
			n := transactionCount(rng, mult, opts.MaxPerStoreDay)
			for i := 0; i < n; i++ {
				rows = append(rows, saleRow(rng, day, st, opts.Dirty))
			}
		}
	}

	if opts.Dirty {
		// Duplicate a few rows verbatim; the loader must skip them.
		for i := 0; i < len(rows)/50; i++ {
			rows = append(rows, rows[rng.Intn(len(rows))])
		}
	}

	rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	return rows
}

// transactionCount draws 0..max transactions, weighted toward fewer and
// scaled by the month's seasonality multiplier.
func transactionCount(rng *rand.Rand, mult float64, max int) int {
	n := 0
	for i := 0; i < max; i++ {
		if rng.Float64() < 0.35*mult {
			n++
		}
	}
	return n
}

func saleRow(rng *rand.Rand, day time.Time, st storeDef, dirty bool) []string {
	p := products[rng.Intn(len(products))]

	// +-5% price jitter around the base price
	price := round2(p.basePrice * (0.95 + rng.Float64()*0.10))
	qty := 1 + rng.Intn(25)

	// Discount tiers: 60% none, 30% small, 10% large
	var discount float64
	switch roll := rng.Float64(); {
	case roll < 0.6:
		discount = 0
	case roll < 0.9:
		discount = round2(price * float64(qty) * (0.03 + rng.Float64()*0.05))
	default:
		discount = round2(price * float64(qty) * (0.10 + rng.Float64()*0.10))
	}

	storeName := st.name
	city := st.city
	if dirty && rng.Float64() < 0.05 {
		storeName = "  " + storeName + " "
		city = city + "  "
	}

	return []string{
		day.Format("2006-01-02"),
		storeName,
		city,
		st.state,
		p.sku,
		p.name,
		p.category,
		strconv.Itoa(qty),
		strconv.FormatFloat(price, 'f', 2, 64),
		strconv.FormatFloat(discount, 'f', 2, 64),
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
