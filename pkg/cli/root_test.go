/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetview/internal/fakeinventory"
)

const devicesPayload = `[
	{"hostname": "web-01", "ip_address": "10.0.0.5", "os": "Windows 10"},
	{"hostname": "db-01", "ip_address": "10.0.0.6", "os": "Ubuntu 22.04"}
]`

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "fleetview", cmd.Use)

	for _, name := range []string{"export", "logs", "hash-password"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "false", verboseFlag.DefValue)
}

// setup starts a fake inventory and writes a config pointing at it.
func setup(t *testing.T) (*fakeinventory.Server, string, string) {
	t.Helper()
	t.Setenv("CONFIG_SOURCE", "")

	srv := fakeinventory.New()
	t.Cleanup(srv.Close)
	srv.SetDevices(devicesPayload)

	outDir := t.TempDir()

	cfg := map[string]any{
		"inventory": map[string]any{"base_url": srv.URL},
		"logging":   map[string]any{"level": "error", "output": "stderr"},
		"session":   map[string]any{"dir": t.TempDir()},
		"export":    map[string]any{"dir": outDir},
	}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "fleetview.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return srv, path, outDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestExportCommandCSV(t *testing.T) {
	_, cfgPath, outDir := setup(t)

	out, err := execute(t, "--config", cfgPath, "export", "--host", "WEB-01")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(outDir, "web-01.csv"))

	data, err := os.ReadFile(filepath.Join(outDir, "web-01.csv"))
	require.NoError(t, err)
	assert.Equal(t, "hostname,ip_address,os\n\"web-01\",\"10.0.0.5\",\"Windows 10\"", string(data))
}

func TestExportCommandPDFByIP(t *testing.T) {
	_, cfgPath, _ := setup(t)
	custom := t.TempDir()

	out, err := execute(t, "--config", cfgPath, "export", "--host", "10.0.0.6", "--format", "pdf", "--out", custom)
	require.NoError(t, err)
	assert.Contains(t, out, "application/pdf")

	data, err := os.ReadFile(filepath.Join(custom, "db-01.pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestExportCommandErrors(t *testing.T) {
	_, cfgPath, _ := setup(t)

	_, err := execute(t, "--config", cfgPath, "export")
	require.ErrorIs(t, err, errNoHost)

	_, err = execute(t, "--config", cfgPath, "export", "--host", "web-01", "--format", "xlsx")
	require.ErrorIs(t, err, errUnknownFormat)

	_, err = execute(t, "--config", cfgPath, "export", "--host", "mail-01")
	require.ErrorIs(t, err, errDeviceNotFound)
}

func TestLogsCommand(t *testing.T) {
	srv, cfgPath, outDir := setup(t)
	srv.SetLogs("10.0.0.5", `{"logs":[{"time":"2025-03-01 10:00","source":"System","event_id":7036,"message":"started"}]}`)

	out, err := execute(t, "--config", cfgPath, "logs", "--device", "web-01")
	require.NoError(t, err)
	assert.Contains(t, out, "1 entries")
	assert.Equal(t, []string{"10.0.0.5"}, srv.LogRequests())

	data, err := os.ReadFile(filepath.Join(outDir, "web-01_logs.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"logs\": [")
}

func TestLogsCommandUnlistedDevice(t *testing.T) {
	srv, cfgPath, outDir := setup(t)

	_, err := execute(t, "--config", cfgPath, "logs", "--device", "10.9.9.9")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.9.9.9"}, srv.LogRequests())

	_, err = os.Stat(filepath.Join(outDir, "10.9.9.9_logs.json"))
	require.NoError(t, err)
}

func TestBadConfig(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"inventory": {"base_url": "ftp://x"}}`), 0o600))

	_, err := execute(t, "--config", path, "export", "--host", "web-01")
	require.ErrorIs(t, err, errFailedToLoadConfig)
}
