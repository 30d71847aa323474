package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/decker502/talkroom/pkg/embedded"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSceneConfigIsValid(t *testing.T) {
	cfg := DefaultSceneConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.35*math.Pi, cfg.Camera.MaxPhi())
	assert.Equal(t, []string{"idle", "walk", "run"}, cfg.Animation.StateNames())
	assert.Equal(t, map[string]float64{"idle": 1, "walk": 0, "run": 0}, cfg.Animation.InitialWeights())
	assert.Equal(t, 5.0, cfg.Animation.Moving["run"])
	assert.False(t, cfg.Screen.Label.Visible)
}

// TestBundledSceneMatchesDefaults 内置的 data/scene.yaml 与默认值保持一致
func TestBundledSceneMatchesDefaults(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "scene.yaml"))
	require.NoError(t, err)

	cfg, err := ParseSceneConfig(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultSceneConfig(), cfg)
}

func TestParseSceneConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *SceneConfig)
	}{
		{
			name:        "empty document keeps defaults",
			yamlContent: "",
			validate: func(t *testing.T, cfg *SceneConfig) {
				assert.Equal(t, DefaultSceneConfig(), cfg)
			},
		},
		{
			name: "partial override",
			yamlContent: `
background: "#112233"
fog:
  far: 80
talkZone:
  position: [4, 0.01, 4]
`,
			validate: func(t *testing.T, cfg *SceneConfig) {
				assert.Equal(t, Color(0x112233), cfg.Background)
				assert.Equal(t, 10.0, cfg.Fog.Near)
				assert.Equal(t, 80.0, cfg.Fog.Far)
				assert.Equal(t, Vec3{4, 0.01, 4}, cfg.TalkZone.Position)
				assert.Equal(t, "Call starts", cfg.TalkZone.Message)
			},
		},
		{
			name: "objects replace the default list",
			yamlContent: `
objects:
  - name: crate
    shape: box
    size: [2, 2, 2]
    position: [0, 1, 5]
    color: 0x884400
    message: Crate clicked!
`,
			validate: func(t *testing.T, cfg *SceneConfig) {
				require.Len(t, cfg.Objects, 1)
				assert.Equal(t, "crate", cfg.Objects[0].Name)
				assert.Equal(t, Color(0x884400), cfg.Objects[0].Color)
			},
		},
		{
			name:        "vec3 with two components",
			yamlContent: "camera:\n  origin: [0, 1.5]\n",
			wantErr:     true,
			errContains: "expected 3 components",
		},
		{
			name:        "color out of range",
			yamlContent: "background: 0x1000000\n",
			wantErr:     true,
			errContains: "out of range",
		},
		{
			name:        "fog far before near",
			yamlContent: "fog:\n  near: 20\n  far: 10\n",
			wantErr:     true,
			errContains: "fog range invalid",
		},
		{
			name:        "unknown shape",
			yamlContent: "objects:\n  - {name: t, shape: torus, position: [0, 0, 0]}\n",
			wantErr:     true,
			errContains: "unknown shape",
		},
		{
			name:        "duplicate object name",
			yamlContent: "objects:\n  - {name: screen, shape: box, size: [1, 1, 1]}\n",
			wantErr:     true,
			errContains: "duplicate name",
		},
		{
			name:        "weight for unknown state",
			yamlContent: "animation:\n  moving: {jump: 1}\n",
			wantErr:     true,
			errContains: "unknown state 'jump'",
		},
		{
			name:        "phi range beyond pi",
			yamlContent: "camera:\n  maxPhiPi: 1.5\n",
			wantErr:     true,
			errContains: "phi range invalid",
		},
		{
			name:        "malformed yaml",
			yamlContent: "fog: [",
			wantErr:     true,
			errContains: "failed to parse scene config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseSceneConfig([]byte(tt.yamlContent))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadSceneConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player:\n  step: 0.1\n"), 0o644))

	cfg, err := LoadSceneConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Player.Step)

	_, err = LoadSceneConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read scene config")
}

func TestLoadSceneConfigFromEmbedded(t *testing.T) {
	embedded.Init(fstest.MapFS{
		"data/scene.yaml": {Data: []byte("grid:\n  divisions: 10\n")},
	})

	cfg, err := LoadSceneConfig(DefaultSceneConfigPath)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Grid.Divisions)
}

func TestColor(t *testing.T) {
	c := Color(0xff8000)
	v := c.Vec3()
	assert.InDelta(t, 1.0, v.X(), 1e-9)
	assert.InDelta(t, 128.0/255, v.Y(), 1e-9)
	assert.InDelta(t, 0.0, v.Z(), 1e-9)
	assert.Equal(t, "#ff8000", c.String())
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("TALKROOM_MODEL_URL", "data/Xbot.glb")
	t.Setenv("TALKROOM_FONT_URL", "")
	t.Setenv("TALKROOM_VERBOSE", "true")

	envCfg, err := LoadEnvConfig()
	require.NoError(t, err)
	assert.True(t, envCfg.Verbose)
	assert.Equal(t, "data/Xbot.glb", envCfg.ModelURL)

	cfg := DefaultSceneConfig()
	envCfg.ApplyTo(cfg)
	assert.Equal(t, "data/Xbot.glb", cfg.Model.URL)
	assert.Equal(t, "", cfg.Font.URL)
}

func TestEnvConfigInvalidBool(t *testing.T) {
	t.Setenv("TALKROOM_VERBOSE", "sometimes")

	_, err := LoadEnvConfig()
	assert.ErrorContains(t, err, "parse env")
}
