package devicetable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetview/pkg/models"
)

func TestCell_SoftwarePreview(t *testing.T) {
	software := []string{"a", "b", "c", "d", "e", "f"}
	rec := models.NewDeviceRecord(models.Field{Key: models.FieldInstalledSoftware, Value: software})

	assert.Equal(t, "a, b, c, d, e...", Cell(rec, models.FieldInstalledSoftware))
	assert.Equal(t, strings.Join(software, "\n"), Tooltip(rec, models.FieldInstalledSoftware))

	short := models.NewDeviceRecord(models.Field{Key: models.FieldInstalledSoftware, Value: software[:5]})
	assert.Equal(t, "a, b, c, d, e", Cell(short, models.FieldInstalledSoftware))
}

func TestCell_MissingIsNA(t *testing.T) {
	rec := models.NewDeviceRecord(
		models.Field{Key: models.FieldHostname, Value: ""},
		models.Field{Key: models.FieldOS, Value: nil},
		models.Field{Key: models.FieldCPUCores, Value: 0},
	)

	assert.Equal(t, "N/A", Cell(rec, models.FieldHostname))
	assert.Equal(t, "N/A", Cell(rec, models.FieldOS))
	assert.Equal(t, "N/A", Cell(rec, models.FieldBIOSVersion))
	assert.Equal(t, "N/A", Cell(rec, models.FieldInstalledSoftware))
	assert.Equal(t, "0", Cell(rec, models.FieldCPUCores))
	assert.Empty(t, Tooltip(rec, models.FieldHostname))
}

func TestHeaderLabel(t *testing.T) {
	col := Column{Key: models.FieldHostname, Label: "Hostname"}

	assert.Equal(t, "Hostname ↑", HeaderLabel(col, models.DefaultSortState()))
	assert.Equal(t, "Hostname ↓", HeaderLabel(col, models.SortState{Key: models.FieldHostname, Direction: models.Descending}))
	assert.Equal(t, "Hostname", HeaderLabel(col, models.SortState{Key: models.FieldOS, Direction: models.Ascending}))
}

func TestRows(t *testing.T) {
	records := []*models.DeviceRecord{
		models.NewDeviceRecord(models.Field{Key: models.FieldHostname, Value: "ws-01"}),
	}

	rows, err := Rows(records, DefaultColumns(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(DefaultColumns()))
	assert.Equal(t, "ws-01", rows[0][0])
	assert.Equal(t, "N/A", rows[0][1])
}

func TestRows_RecoversFromPanic(t *testing.T) {
	records := []*models.DeviceRecord{models.NewDeviceRecord()}

	rows, err := Rows(records, DefaultColumns(), func(*models.DeviceRecord, string) string {
		panic("bad cell")
	})

	require.ErrorIs(t, err, ErrRenderFailed)
	assert.Contains(t, err.Error(), "bad cell")
	assert.Nil(t, rows)
}
