// Package dataset reads product tables and writes them back augmented with
// the computed footprint columns, preserving row order and original cells.
package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rshade/ecoshop-impact/internal/carbon"
)

// Input column names.
const (
	ColID                  = "id"
	ColPackagingMaterial   = "packaging_material"
	ColRecyclablePackaging = "recyclable_packaging"
	ColIngredientMain      = "ingredient_main"
	ColOriginCountry       = "origin_country"
	ColTransportationType  = "transportation_type"
	ColWeight              = "weight"
	ColWeightUnit          = "weight_unit"
	ColBaseType            = "base_type"
	ColCategoryClimatiq    = "category_climatiq"
	ColMoney               = "money"
	ColMoneyUnit           = "money_unit"
	ColVolume              = "volume"
	ColVolumeUnit          = "volume_unit"
)

// Output column names, in the order they are appended.
const (
	ColMaterials     = "huella_materiales"
	ColTransport     = "huella_transporte"
	ColManufacturing = "huella_manufactura"
	ColTotal         = "huella_total"
	ColBadge         = "eco_badge"
)

// OutputColumns lists the computed columns.
var OutputColumns = []string{ColMaterials, ColTransport, ColManufacturing, ColTotal, ColBadge}

// RequiredColumns must be present in every input table.
var RequiredColumns = []string{ColWeight}

// Table is a header plus rows of string cells. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable builds a Table, padding short rows with empty cells. Rows longer
// than the header are kept whole; readers and Augment reject them.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: make([][]string, len(rows))}
	for i, row := range rows {
		padded := make([]string, max(len(header), len(row)))
		copy(padded, row)
		t.Rows[i] = padded
	}
	return t
}

// checkWidth returns ErrRaggedRow for the first row with more cells than
// the header. Row numbers are 1-based data rows.
func (t *Table) checkWidth() error {
	for i, row := range t.Rows {
		if len(row) > len(t.Header) {
			return fmt.Errorf("%w: row %d has %d fields, header has %d", ErrRaggedRow, i+1, len(row), len(t.Header))
		}
	}
	return nil
}

// Column returns the index of name in the header, or -1.
func (t *Table) Column(name string) int {
	return slices.Index(t.Header, name)
}

// Products maps each row to a carbon.Product. Rows keep their order.
// Unparseable weights become 0 and are rejected later by validation;
// unparseable optional numbers are treated as absent.
func (t *Table) Products() ([]carbon.Product, error) {
	for _, col := range RequiredColumns {
		if t.Column(col) < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	get := t.getter()
	products := make([]carbon.Product, len(t.Rows))
	for i, row := range t.Rows {
		products[i] = carbon.Product{
			ID:                  get(row, ColID),
			PackagingMaterial:   get(row, ColPackagingMaterial),
			RecyclablePackaging: parseBool(get(row, ColRecyclablePackaging)),
			IngredientMain:      get(row, ColIngredientMain),
			OriginCountry:       get(row, ColOriginCountry),
			TransportationType:  get(row, ColTransportationType),
			Weight:              parseFloat(get(row, ColWeight)),
			WeightUnit:          get(row, ColWeightUnit),
			BaseType:            get(row, ColBaseType),
			CategoryClimatiq:    get(row, ColCategoryClimatiq),
			Money:               parseOptionalFloat(get(row, ColMoney)),
			MoneyUnit:           get(row, ColMoneyUnit),
			Volume:              parseOptionalFloat(get(row, ColVolume)),
			VolumeUnit:          get(row, ColVolumeUnit),
		}
	}
	return products, nil
}

func (t *Table) getter() func(row []string, name string) string {
	index := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		index[h] = i
	}
	return func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
}

// Augment returns a copy of t with the computed columns filled from
// results. Existing computed columns are overwritten in place; missing ones
// are appended. Rows whose result has an error get empty computed cells.
func Augment(t *Table, results []carbon.ImpactResult) (*Table, error) {
	if len(results) != len(t.Rows) {
		return nil, fmt.Errorf("%w: %d rows, %d results", ErrRowMismatch, len(t.Rows), len(results))
	}
	if err := t.checkWidth(); err != nil {
		return nil, err
	}

	header := slices.Clone(t.Header)
	positions := make([]int, len(OutputColumns))
	for i, col := range OutputColumns {
		pos := slices.Index(header, col)
		if pos < 0 {
			header = append(header, col)
			pos = len(header) - 1
		}
		positions[i] = pos
	}

	out := &Table{Header: header, Rows: make([][]string, len(t.Rows))}
	for i, row := range t.Rows {
		cells := make([]string, len(header))
		copy(cells, row)
		for j, value := range outputCells(results[i]) {
			cells[positions[j]] = value
		}
		out.Rows[i] = cells
	}
	return out, nil
}

func outputCells(r carbon.ImpactResult) []string {
	if r.Err != nil {
		return make([]string, len(OutputColumns))
	}
	manufacturing := ""
	if r.ManufacturingKg != nil {
		manufacturing = formatFloat(*r.ManufacturingKg)
	}
	return []string{
		formatFloat(r.MaterialsScore),
		formatFloat(r.TransportKg),
		manufacturing,
		formatFloat(r.TotalKg),
		r.Badge.String(),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseOptionalFloat(s string) *float64 {
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseBool reads a recyclable flag. Only explicit negatives are false;
// an empty cell defaults to recyclable.
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "false", "f", "0", "no", "n":
		return false
	default:
		return true
	}
}
