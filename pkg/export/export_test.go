package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dataset {
	return Dataset{
		Title:   "Students",
		Headers: []string{"ID", "Name", "Marks (History)"},
		Rows: []map[string]string{
			{"ID": "101", "Name": "Alice Johnson", "Marks (History)": "92/100 (A+)"},
			{"ID": "103", "Name": "Charlie, Brown"},
		},
	}
}

func TestCSVExporterOrdersColumnsAndQuotes(t *testing.T) {
	out, err := NewCSVExporter().Render(sample())
	require.NoError(t, err)
	assert.Equal(t, "ID,Name,Marks (History)\n101,Alice Johnson,92/100 (A+)\n103,\"Charlie, Brown\",\n", string(out))
}

func TestExportersRejectEmptyHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterProducesDocument(t *testing.T) {
	data := sample()
	for i := 0; i < 80; i++ {
		data.Rows = append(data.Rows, map[string]string{"ID": "1", "Name": "A very long student name that will not fit the column"})
	}
	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType())
	assert.IsType(t, &PDFExporter{}, RendererFor(f))

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}
