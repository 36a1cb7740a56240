package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bowersync/internal/adapters/document"
	"go.trai.ch/bowersync/internal/adapters/fs"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports/mocks"
	"go.trai.ch/bowersync/internal/engine/manifest"
	"go.uber.org/mock/gomock"
)

// newEngine returns an engine over a bower.json in a temp dir. An empty content
// leaves the manifest absent.
func newEngine(t *testing.T, content string, opts manifest.Options) (*manifest.Engine, string, *mocks.MockLogger) {
	t.Helper()

	path := filepath.Join(t.TempDir(), domain.ManifestFileName)
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	}

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	doc := document.NewFactory(fs.NewOSFS()).Open(path)
	return manifest.New(doc, logger, opts), path, logger
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // Test file path
	require.NoError(t, err)
	return string(data)
}

func pkg(name, version string, depType domain.DependencyType) domain.Package {
	return domain.Package{Name: name, Version: version, Type: depType}
}

func TestEngine_CreateDefault(t *testing.T) {
	engine, path, _ := newEngine(t, "", manifest.Options{ProjectName: "demo"})

	require.NoError(t, engine.Create(context.Background(), nil))

	assert.Equal(t, `{
    "name": "demo",
    "dependencies": {},
    "devDependencies": {}
}
`, readFile(t, path))
	assert.Equal(t, domain.EmptySnapshot(), engine.GetAllDependencies())
}

func TestEngine_CreateDefaultName(t *testing.T) {
	engine, path, _ := newEngine(t, "", manifest.Options{})

	require.NoError(t, engine.Create(context.Background(), nil))
	assert.JSONEq(t, `{"name":"your-app-name","dependencies":{},"devDependencies":{}}`, readFile(t, path))
}

func TestEngine_CreateFromPackages(t *testing.T) {
	engine, path, _ := newEngine(t, "", manifest.Options{ProjectName: "app"})

	packages := []domain.Package{
		pkg("jquery", "2.1.4", domain.Production),
		pkg("mocha", "1.0.0", domain.Development),
	}
	require.NoError(t, engine.Create(context.Background(), packages))

	assert.JSONEq(t, `{"name":"app","dependencies":{"jquery":"2.1.4"},"devDependencies":{"mocha":"1.0.0"}}`, readFile(t, path))
	assert.Equal(t, map[string]string{"mocha": "1.0.0"}, engine.GetAllDependencies().DevDependencies)
}

func TestEngine_CreateFromProductionPackagesOnly(t *testing.T) {
	engine, path, _ := newEngine(t, "", manifest.Options{ProjectName: "app"})

	require.NoError(t, engine.Create(context.Background(), []domain.Package{}))
	assert.JSONEq(t, `{"name":"app","dependencies":{}}`, readFile(t, path))
}

func TestEngine_SyncDependencies(t *testing.T) {
	engine, path, _ := newEngine(t, `{"name":"app","dependencies":{"jquery":"1.0.0"}}`, manifest.Options{})

	lodash := pkg("lodash", "4.0.0", domain.Production)
	jquery := pkg("jquery", "2.0.0", domain.Production)
	diff := &domain.SyncDiff{
		Missing:          []domain.Package{},
		Untracked:        []domain.Package{lodash},
		VersionOutOfSync: []domain.Package{jquery},
	}

	result, err := engine.SyncDependencies(context.Background(), diff)
	require.NoError(t, err)

	assert.Equal(t, `{
    "name": "app",
    "dependencies": {
        "jquery": "2.0.0",
        "lodash": "^4.0.0"
    }
}
`, readFile(t, path))
	assert.Empty(t, result.Removed)
	assert.Equal(t, []domain.Package{lodash}, result.Installed)
	assert.Equal(t, []domain.Package{jquery}, result.Updated)
	assert.Equal(t, map[string]string{"jquery": "2.0.0", "lodash": "^4.0.0"}, engine.GetAllDependencies().Dependencies)
}

func TestEngine_SyncDependencies_AllPasses(t *testing.T) {
	engine, path, _ := newEngine(t,
		`{"name":"app","main":"index.js","dependencies":{"gone":"1.0.0"},"devDependencies":{"mocha":"1.0.0","old":"0.1.0"}}`,
		manifest.Options{RangeOperator: "~"})

	diff := &domain.SyncDiff{
		Missing:          []domain.Package{pkg("gone", "1.0.0", domain.Production), pkg("old", "0.1.0", domain.Development)},
		Untracked:        []domain.Package{pkg("lodash", "4.0.0", domain.Production), pkg("ui", "master", domain.Production)},
		VersionOutOfSync: []domain.Package{pkg("mocha", "2.0.0", domain.Development), pkg("chai", "3.0.0", domain.Production)},
	}

	_, err := engine.SyncDependencies(context.Background(), diff)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"name": "app",
		"main": "index.js",
		"dependencies": {"lodash": "~4.0.0", "ui": "master", "chai": "3.0.0"},
		"devDependencies": {"mocha": "2.0.0"}
	}`, readFile(t, path))
}

func TestEngine_SyncDependencies_UntrackedAlreadyDeclared(t *testing.T) {
	engine, path, _ := newEngine(t,
		`{"name":"app","dependencies":{"lodash":"3.0.0"},"devDependencies":{"mocha":"1.0.0"}}`,
		manifest.Options{})

	diff := &domain.SyncDiff{Untracked: []domain.Package{
		pkg("lodash", "4.0.0", domain.Production),
		pkg("mocha", "2.0.0", domain.Production),
	}}

	result, err := engine.SyncDependencies(context.Background(), diff)
	require.NoError(t, err)

	// Existing production entries are kept; only "dependencies" is consulted.
	assert.JSONEq(t, `{
		"name": "app",
		"dependencies": {"lodash": "3.0.0", "mocha": "^2.0.0"},
		"devDependencies": {"mocha": "1.0.0"}
	}`, readFile(t, path))
	assert.Len(t, result.Installed, 2)
}

func TestEngine_SyncDependencies_NothingToSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	doc := mocks.NewMockDocument(ctrl)
	engine := manifest.New(doc, mocks.NewMockLogger(ctrl), manifest.Options{})

	_, err := engine.SyncDependencies(context.Background(), &domain.SyncDiff{
		Missing: []domain.Package{}, Untracked: []domain.Package{}, VersionOutOfSync: []domain.Package{},
	})
	require.ErrorIs(t, err, domain.ErrNothingToSync)

	_, err = engine.SyncDependencies(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNothingToSync)

	_, _, err = engine.PreviewSync(context.Background(), &domain.SyncDiff{})
	require.ErrorIs(t, err, domain.ErrNothingToSync)
}

func TestEngine_PreviewSync(t *testing.T) {
	original := `{"name":"app","dependencies":{"jquery":"1.0.0"}}`
	engine, path, _ := newEngine(t, original, manifest.Options{})

	before, after, err := engine.PreviewSync(context.Background(), &domain.SyncDiff{
		Untracked: []domain.Package{pkg("lodash", "4.0.0", domain.Production)},
	})
	require.NoError(t, err)

	assert.JSONEq(t, original, string(before))
	assert.JSONEq(t, `{"name":"app","dependencies":{"jquery":"1.0.0","lodash":"^4.0.0"}}`, string(after))
	assert.Equal(t, original, readFile(t, path), "preview must not write")
	assert.Equal(t, domain.EmptySnapshot(), engine.GetAllDependencies())
}

func TestEngine_UpdatePackageInfo_NoData(t *testing.T) {
	ctrl := gomock.NewController(t)
	doc := mocks.NewMockDocument(ctrl)
	engine := manifest.New(doc, mocks.NewMockLogger(ctrl), manifest.Options{})

	empty := ""
	tests := []domain.PackageUpdate{
		{},
		{Version: &empty},
	}
	for _, update := range tests {
		err := engine.UpdatePackageInfo(context.Background(), "jquery", update)
		require.ErrorIs(t, err, domain.ErrNoUpdateData)
	}
}

func TestEngine_UpdatePackageInfo_MoveToDevelopment(t *testing.T) {
	engine, path, _ := newEngine(t,
		`{"name":"app","dependencies":{"jquery":"~2.1.0","lodash":"4.0.0"},"devDependencies":{"mocha":"1.0.0"}}`,
		manifest.Options{})

	dev := domain.Development
	require.NoError(t, engine.UpdatePackageInfo(context.Background(), "jquery", domain.PackageUpdate{DependencyType: &dev}))

	assert.JSONEq(t, `{
		"name": "app",
		"dependencies": {"lodash": "4.0.0"},
		"devDependencies": {"jquery": "~2.1.0", "mocha": "1.0.0"}
	}`, readFile(t, path))
	assert.Equal(t, map[string]string{"jquery": "~2.1.0", "mocha": "1.0.0"}, engine.GetAllDependencies().DevDependencies)
}

func TestEngine_UpdatePackageInfo_MoveToProductionCreatesMapping(t *testing.T) {
	engine, path, _ := newEngine(t, `{"name":"app","devDependencies":{"mocha":"1.0.0"}}`, manifest.Options{})

	prod := domain.Production
	version := "2.0.0"
	require.NoError(t, engine.UpdatePackageInfo(context.Background(), "mocha",
		domain.PackageUpdate{Version: &version, DependencyType: &prod}))

	assert.JSONEq(t, `{"name":"app","dependencies":{"mocha":"2.0.0"},"devDependencies":{}}`, readFile(t, path))
}

func TestEngine_UpdatePackageInfo_Version(t *testing.T) {
	engine, path, _ := newEngine(t, `{"name":"app","devDependencies":{"mocha":"1.0.0"}}`, manifest.Options{})

	version := "^2.0.0"
	dev := domain.Development
	require.NoError(t, engine.UpdatePackageInfo(context.Background(), "mocha",
		domain.PackageUpdate{Version: &version, DependencyType: &dev}))

	assert.JSONEq(t, `{"name":"app","devDependencies":{"mocha":"^2.0.0"}}`, readFile(t, path))
}

func TestEngine_UpdatePackageInfo_UnknownPackage(t *testing.T) {
	original := `{"name":"app","dependencies":{"jquery":"1.0.0"}}`
	engine, path, _ := newEngine(t, original, manifest.Options{})

	version := "2.0.0"
	err := engine.UpdatePackageInfo(context.Background(), "lodash", domain.PackageUpdate{Version: &version})
	require.ErrorIs(t, err, domain.ErrNoUpdateData)
	assert.Equal(t, original, readFile(t, path))
}

func TestEngine_AddDependency(t *testing.T) {
	engine, path, _ := newEngine(t, `{"name":"app","description":"keep me"}`, manifest.Options{})
	ctx := context.Background()

	require.NoError(t, engine.AddDependencyToProduction(ctx, "jquery", ">=2.0.0"))
	require.NoError(t, engine.AddDependencyToDevelopment(ctx, "mocha", "1.0.0"))
	require.NoError(t, engine.AddDependencyToProduction(ctx, "jquery", "3.0.0"))

	assert.Equal(t, `{
    "name": "app",
    "description": "keep me",
    "dependencies": {
        "jquery": "3.0.0"
    },
    "devDependencies": {
        "mocha": "1.0.0"
    }
}
`, readFile(t, path))
	assert.Equal(t, map[string]string{"jquery": "3.0.0"}, engine.GetAllDependencies().Dependencies)
}

func TestEngine_RemoveDependency(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		remove   string
		expected string
	}{
		{
			name:     "production",
			input:    `{"name":"app","dependencies":{"a":"1","b":"1"},"devDependencies":{"c":"1"}}`,
			remove:   "a",
			expected: `{"name":"app","dependencies":{"b":"1"},"devDependencies":{"c":"1"}}`,
		},
		{
			name:     "development",
			input:    `{"name":"app","dependencies":{"a":"1"},"devDependencies":{"c":"1"}}`,
			remove:   "c",
			expected: `{"name":"app","dependencies":{"a":"1"},"devDependencies":{}}`,
		},
		{
			name:     "production wins over development",
			input:    `{"name":"app","dependencies":{"a":"1"},"devDependencies":{"a":"2"}}`,
			remove:   "a",
			expected: `{"name":"app","dependencies":{},"devDependencies":{"a":"2"}}`,
		},
		{
			name:     "unknown name still saves",
			input:    `{"name":"app","dependencies":{"a":"1"}}`,
			remove:   "zzz",
			expected: `{"name":"app","dependencies":{"a":"1"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, path, _ := newEngine(t, tt.input, manifest.Options{})

			require.NoError(t, engine.RemoveDependency(context.Background(), tt.remove))
			assert.JSONEq(t, tt.expected, readFile(t, path))
		})
	}
}

func TestEngine_RemoveDependency_AlwaysPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	doc := mocks.NewMockDocument(ctrl)
	engine := manifest.New(doc, mocks.NewMockLogger(ctrl), manifest.Options{})

	data := []byte(`{"name":"app"}`)
	doc.EXPECT().Read(gomock.Any()).Return(data, nil)
	doc.EXPECT().Decode(data, gomock.Any()).DoAndReturn(func(_ []byte, v any) error {
		*v.(*domain.Manifest) = domain.Manifest{Name: "app"}
		return nil
	})
	doc.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, engine.RemoveDependency(context.Background(), "missing"))
}

func TestEngine_LoadAllDependencies(t *testing.T) {
	engine, path, logger := newEngine(t, `{"name":"app","dependencies":{"a":"1"}}`, manifest.Options{})
	ctx := context.Background()

	changed, err := engine.LoadAllDependencies(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, map[string]string{"a": "1"}, engine.GetAllDependencies().Dependencies)

	changed, err = engine.OnContentChanged(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte(`{"name":"app","dependencies":{"a":"2"}}`), domain.PrivateFilePerm))
	changed, err = engine.OnContentChanged(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, map[string]string{"a": "2"}, engine.GetAllDependencies().Dependencies)

	logger.EXPECT().Error(gomock.Any()).Times(1)
	require.NoError(t, os.WriteFile(path, []byte(`{"name":`), domain.PrivateFilePerm))
	changed, err = engine.OnContentChanged(ctx)
	require.ErrorIs(t, err, domain.ErrMalformedManifest)
	assert.False(t, changed)
	assert.Equal(t, domain.EmptySnapshot(), engine.GetAllDependencies())
	assert.Equal(t, `{"name":`, readFile(t, path), "parse failures never touch the file")
}

func TestEngine_LoadAllDependencies_Missing(t *testing.T) {
	engine, _, _ := newEngine(t, "", manifest.Options{})

	_, err := engine.LoadAllDependencies(context.Background())
	require.ErrorIs(t, err, domain.ErrStorageReadFailed)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngine_MalformedManifestBlocksMutations(t *testing.T) {
	for _, content := range []string{`not json`, `null`, `[]`} {
		t.Run(content, func(t *testing.T) {
			engine, path, logger := newEngine(t, content, manifest.Options{})
			logger.EXPECT().Error(gomock.Any()).Times(2)

			err := engine.AddDependencyToProduction(context.Background(), "a", "1")
			require.ErrorIs(t, err, domain.ErrMalformedManifest)

			_, err = engine.LoadAllDependencies(context.Background())
			require.ErrorIs(t, err, domain.ErrMalformedManifest)
			assert.Equal(t, content, readFile(t, path))
		})
	}
}

func TestEngine_NullMappingKept(t *testing.T) {
	engine, path, _ := newEngine(t, `{"name":"app","dependencies":null,"devDependencies":{"a":"1"}}`, manifest.Options{})

	require.NoError(t, engine.RemoveDependency(context.Background(), "a"))

	assert.Equal(t, `{
    "name": "app",
    "dependencies": null,
    "devDependencies": {}
}
`, readFile(t, path))
}

func TestEngine_KeyOrderPreserved(t *testing.T) {
	original := `{
    "name": "app",
    "version": "1.0.0",
    "main": "index.js",
    "dependencies": {
        "jquery": "2.0.0"
    },
    "ignore": [
        "**/.*"
    ]
}
`
	engine, path, _ := newEngine(t, original, manifest.Options{})

	require.NoError(t, engine.RemoveDependency(context.Background(), "nothing"))
	assert.Equal(t, original, readFile(t, path))

	require.NoError(t, engine.AddDependencyToDevelopment(context.Background(), "mocha", "1.0.0"))
	assert.Equal(t, `{
    "name": "app",
    "version": "1.0.0",
    "main": "index.js",
    "dependencies": {
        "jquery": "2.0.0"
    },
    "ignore": [
        "**/.*"
    ],
    "devDependencies": {
        "mocha": "1.0.0"
    }
}
`, readFile(t, path))
}

func TestEngine_Read(t *testing.T) {
	engine, path, _ := newEngine(t, `{"name":"app"}`, manifest.Options{})

	data, err := engine.Read(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"app"}`, string(data))
	assert.Equal(t, path, engine.Path())
}

func TestExistsInDirectory(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	osfs := fs.NewOSFS()

	exists, err := manifest.ExistsInDirectory(ctx, osfs, dir)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(domain.ManifestPath(dir), []byte("not parsed"), domain.PrivateFilePerm))
	exists, err = manifest.ExistsInDirectory(ctx, osfs, dir)
	require.NoError(t, err)
	assert.True(t, exists)
}
