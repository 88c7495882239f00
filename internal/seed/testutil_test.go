package seed

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const teaHouseFeed = `# tea house catalog
{"kind":"project","project":"tea-house"}
{"kind":"product","project":"tea-house","name":"Milk Tea","price":"4.50","group":"tea","limit":2}
{"kind":"product","project":"tea-house","name":"Water","price":1}

{"kind":"topping","project":"tea-house","name":"Pearls","price":"0.50","group":"tea"}
{"kind":"topping","project":"tea-house","name":"Jelly","price":"0.75","group":"tea"}
`

// writeFeedFile writes lines to a file in a temp dir, gzipped when the name ends in .gz.
func writeFeedFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	if strings.HasSuffix(name, ".gz") {
		gz := gzip.NewWriter(file)
		_, err = gz.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		return path
	}

	_, err = file.WriteString(content)
	require.NoError(t, err)
	return path
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
