package cli

import (
	"io"

	"flustudio/internal/config"
	"flustudio/internal/execx"
	"flustudio/internal/launcher"
	"flustudio/internal/logx"
	"flustudio/internal/pathenv"
	"flustudio/internal/paths"
	"flustudio/internal/project"
	"flustudio/internal/sdk"
	"flustudio/internal/store"
)

// app bundles the services every command needs. Build one with openApp and
// always Close it.
type app struct {
	Paths  paths.AppPaths
	Config config.Config
	Store  *store.Store
	Logger logx.Logger

	logCloser io.Closer
}

func openApp(name string) (*app, error) {
	p, err := paths.Resolve()
	if err != nil {
		return nil, err
	}
	if err := p.EnsureDirs(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(p.ConfigFile)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logx.New(p, name)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(p.DBFile)
	if err != nil {
		closer.Close()
		return nil, err
	}
	st.ValidateProject = project.IsProjectRoot

	return &app{
		Paths:     p,
		Config:    cfg,
		Store:     st,
		Logger:    logger,
		logCloser: closer,
	}, nil
}

func (a *app) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

// registry builds the SDK registry bound to this app's store and paths.
func (a *app) registry() *sdk.Registry {
	return &sdk.Registry{
		Store:   a.Store,
		Runner:  execx.CmdRunner{},
		Path:    pathenv.Editor{Logger: a.Logger},
		Logger:  a.Logger,
		BaseDir: a.Paths.SDKsDir,
	}
}

// inspector builds a metadata inspector using the default SDK's toolchain.
func (a *app) inspector() project.Inspector {
	return project.Inspector{
		Runner:     execx.CmdRunner{},
		FlutterExe: a.registry().DefaultExecutable(),
		Logger:     a.Logger,
	}
}

// launcherService builds the flutter command launcher.
func (a *app) launcherService() *launcher.Service {
	reg := a.registry()
	return &launcher.Service{
		Runner:  execx.CmdRunner{},
		Flutter: reg.DefaultExecutable,
		Store:   a.Store,
		Logger:  a.Logger,
	}
}

// catalog builds the version catalog backed by the on-disk cache.
func (a *app) catalog() *sdk.Catalog {
	return &sdk.Catalog{
		CacheFile: a.Paths.CatalogFile,
		Logger:    a.Logger,
	}
}
