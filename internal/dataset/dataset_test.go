package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rshade/ecoshop-impact/internal/carbon"
)

const sampleCSV = "id,product,packaging_material,recyclable_packaging,ingredient_main,origin_country,transportation_type,weight,base_type,money\n" +
	"1,SilkBalance Emulsion,glass_container,True,Aloe Vera,ARG,land,150,water_based,\n" +
	"2,Bamboo Wash,plastic_bottle,False,Bamboo Extract,KOR,sea,250,plant_based,12.5\n" +
	"3,Broken Row,paper_wrap,yes,Lemon,MEX,air,,oil_based,nan\n"

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func manufacturing(v float64) *float64 { return &v }

// TestReadFile_CSV verifies rows map to products in order.
func TestReadFile_CSV(t *testing.T) {
	table, err := ReadFile(writeSample(t, sampleCSV))
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	products, err := table.Products()
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, carbon.Product{
		ID:                  "1",
		PackagingMaterial:   "glass_container",
		RecyclablePackaging: true,
		IngredientMain:      "Aloe Vera",
		OriginCountry:       "ARG",
		TransportationType:  "land",
		Weight:              150,
		BaseType:            "water_based",
	}, products[0])

	assert.False(t, products[1].RecyclablePackaging)
	require.NotNil(t, products[1].Money)
	assert.InDelta(t, 12.5, *products[1].Money, 1e-12)

	assert.True(t, products[2].RecyclablePackaging)
	assert.Zero(t, products[2].Weight, "missing weight is left for validation")
	assert.Nil(t, products[2].Money, "nan is treated as absent")
}

// TestReadFile_CSVWithBOM verifies a UTF-8 byte order mark is ignored.
func TestReadFile_CSVWithBOM(t *testing.T) {
	table, err := ReadFile(writeSample(t, "\ufeffid,weight\n1,100\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, table.Column(ColID))
	products, err := table.Products()
	require.NoError(t, err)
	assert.Equal(t, "1", products[0].ID)
}

// TestReadFile_Errors verifies unreadable inputs.
func TestReadFile_Errors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		_, err := ReadFile("products.json")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ReadFile(writeSample(t, ""))
		assert.ErrorIs(t, err, ErrEmptyDataset)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("missing weight column", func(t *testing.T) {
		table, err := ReadFile(writeSample(t, "id,packaging_material\n1,paper_wrap\n"))
		require.NoError(t, err)

		_, err = table.Products()
		assert.ErrorIs(t, err, ErrMissingColumn)
	})
}

// TestNewTable_PadsShortRows verifies every row has one cell per header.
func TestNewTable_PadsShortRows(t *testing.T) {
	table := NewTable([]string{"id", "weight", "base_type"}, [][]string{{"1"}, {"2", "100", "oil_based"}})

	assert.Equal(t, []string{"1", "", ""}, table.Rows[0])
	assert.Equal(t, []string{"2", "100", "oil_based"}, table.Rows[1])
}

// TestNewTable_KeepsLongRows verifies cells beyond the header are not dropped.
func TestNewTable_KeepsLongRows(t *testing.T) {
	table := NewTable([]string{"id", "weight"}, [][]string{{"1", "100", "extra"}})

	assert.Equal(t, []string{"1", "100", "extra"}, table.Rows[0])
}

// TestReadFile_RaggedRows verifies rows wider than the header are rejected.
func TestReadFile_RaggedRows(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		_, err := ReadFile(writeSample(t, "id,weight\n1,100\n2,200,extra\n"))
		require.ErrorIs(t, err, ErrRaggedRow)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("xlsx", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.xlsx")
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"id", "weight"}))
		require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"1", "100", "extra"}))
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		_, err := ReadFile(path)
		assert.ErrorIs(t, err, ErrRaggedRow)
	})

	t.Run("short rows still pad", func(t *testing.T) {
		table, err := ReadFile(writeSample(t, "id,weight,base_type\n1,100\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "100", ""}, table.Rows[0])
	})
}

// TestAugment_RaggedRow verifies Augment refuses to overwrite extra cells.
func TestAugment_RaggedRow(t *testing.T) {
	table := NewTable([]string{"id"}, [][]string{{"1", "extra"}})

	_, err := Augment(table, []carbon.ImpactResult{{Err: carbon.ErrInvalidProduct}})
	assert.ErrorIs(t, err, ErrRaggedRow)
}

// TestAugment verifies computed columns are appended and error rows left blank.
func TestAugment(t *testing.T) {
	table := NewTable([]string{"id", "weight"}, [][]string{{"1", "150"}, {"2", ""}})
	results := []carbon.ImpactResult{
		{
			MaterialsScore:  0.3,
			TransportKg:     0.012,
			ManufacturingKg: manufacturing(0.083),
			TotalKg:         0.395,
			Badge:           carbon.BadgeLow,
		},
		{Err: carbon.ErrInvalidProduct},
	}

	out, err := Augment(table, results)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "weight", ColMaterials, ColTransport, ColManufacturing, ColTotal, ColBadge}, out.Header)
	assert.Equal(t, []string{"1", "150", "0.3", "0.012", "0.083", "0.395", "low impact"}, out.Rows[0])
	assert.Equal(t, []string{"2", "", "", "", "", "", ""}, out.Rows[1])

	assert.Equal(t, []string{"id", "weight"}, table.Header, "input is not modified")
}

// TestAugment_OverwritesExisting verifies re-running replaces old values in place.
func TestAugment_OverwritesExisting(t *testing.T) {
	header := []string{"id", ColTotal, "weight", ColBadge}
	table := NewTable(header, [][]string{{"1", "9.9", "100", "high impact"}})
	results := []carbon.ImpactResult{{TotalKg: 0.2, ManufacturingKg: manufacturing(0.1), Badge: carbon.BadgeLow}}

	out, err := Augment(table, results)
	require.NoError(t, err)

	require.Len(t, out.Header, 7)
	assert.Equal(t, 1, out.Column(ColTotal))
	assert.Equal(t, 3, out.Column(ColBadge))
	assert.Equal(t, "0.2", out.Rows[0][1])
	assert.Equal(t, "low impact", out.Rows[0][3])
}

// TestAugment_RowMismatch verifies results must line up with rows.
func TestAugment_RowMismatch(t *testing.T) {
	table := NewTable([]string{"id"}, [][]string{{"1"}, {"2"}})

	_, err := Augment(table, []carbon.ImpactResult{{}})
	assert.ErrorIs(t, err, ErrRowMismatch)
}

// TestWriteFile_RoundTrip verifies CSV and XLSX outputs read back unchanged.
func TestWriteFile_RoundTrip(t *testing.T) {
	table := NewTable(
		[]string{"id", "product", "weight", ColTotal, ColBadge},
		[][]string{
			{"1", "Emulsion, 50ml", "150", "0.395", "low impact"},
			{"2", "Wash", "250", "1.7", "high impact"},
		},
	)

	for _, ext := range []string{".csv", ".xlsx"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "products_with_impact"+ext)
			require.NoError(t, WriteFile(path, table))

			got, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, table.Header, got.Header)
			assert.Equal(t, table.Rows, got.Rows)
		})
	}
}

// TestReadFile_XLSX verifies the first sheet of a workbook is read.
func TestReadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"id", "weight", "origin_country"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"10", "200", "CHN"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := ReadFile(path)
	require.NoError(t, err)
	products, err := table.Products()
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "10", products[0].ID)
	assert.InDelta(t, 200, products[0].Weight, 1e-12)
	assert.Equal(t, "CHN", products[0].OriginCountry)
}

// TestWriteFile_Unsupported verifies unknown output formats are rejected.
func TestWriteFile_Unsupported(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "out.parquet"), NewTable([]string{"id"}, nil))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
