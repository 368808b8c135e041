package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/xtding233/wishsim/internal/catalog"
	"github.com/xtding233/wishsim/internal/gacha"
	"github.com/xtding233/wishsim/internal/game"
	"github.com/xtding233/wishsim/internal/rpc"
	"github.com/xtding233/wishsim/internal/service"
)

const mainConfigName = "wishsim.yaml"

func init() {
	pflag.String("http", ":8080", "HTTP listen address")
	pflag.String("grpc", ":9090", "gRPC listen address, empty to disable")
	pflag.StringP("config-dir", "c", "./config", "directory holding rates/ and banners.yaml")
	pflag.String("catalog-url", "", "fetch banners from this JSON endpoint instead of banners.yaml")
	pflag.StringP("log", "l", "info", "the level of logging")
	pflag.String("log-dir", "", "write rotated log files here as well as to stdout")
	pflag.Uint64("seed", 0, "seed the wish RNG for reproducible runs (0 = crypto source)")
}

func bindConfig() {
	_ = viper.BindPFlag("http.address", pflag.Lookup("http"))
	_ = viper.BindPFlag("grpc.address", pflag.Lookup("grpc"))
	_ = viper.BindPFlag("config.dir", pflag.Lookup("config-dir"))
	_ = viper.BindPFlag("catalog.url", pflag.Lookup("catalog-url"))
	_ = viper.BindPFlag("log.level", pflag.Lookup("log"))
	_ = viper.BindPFlag("log.dir", pflag.Lookup("log-dir"))
	_ = viper.BindPFlag("rng.seed", pflag.Lookup("seed"))
	viper.SetDefault("log.days", 7)
	viper.SetDefault("history.limit", 5000)
	viper.SetEnvPrefix("WISHSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// mergeMainConfig merges wishsim.yaml from the config dir when present and
// watches it for log level changes.
func mergeMainConfig(dir string) error {
	path := filepath.Join(dir, mainConfigName)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.MergeInConfig(); err != nil {
		return err
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		if err := setupLogger(); err != nil {
			log.Errorf("setupLogger err: %v", err)
		}
		log.Infof("reload main config from %v", e.Name)
	})
	viper.WatchConfig()
	return nil
}

var flagToLevel = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarnLevel,
	"warning": log.WarnLevel,
	"error":   log.ErrorLevel,
}

func setupLogger() error {
	log.SetLevel(log.InfoLevel)
	if l, ok := flagToLevel[strings.ToLower(viper.GetString("log.level"))]; ok {
		log.SetLevel(l)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})

	dir := viper.GetString("log.dir")
	if dir == "" {
		log.SetOutput(os.Stdout)
		return nil
	}
	logf, err := rotatelogs.New(
		filepath.Join(dir, "wishsim-%Y-%m-%d.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, "wishsim.log")),
		rotatelogs.WithMaxAge(time.Duration(viper.GetInt("log.days"))*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return err
	}
	log.SetOutput(io.MultiWriter(os.Stdout, logf))
	return nil
}

func loadCatalog(ctx context.Context, paths game.Paths) (*catalog.Catalog, error) {
	if url := viper.GetString("catalog.url"); url != "" {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return catalog.Fetch(ctx, nil, url)
	}
	return catalog.LoadFile(paths.CatalogPath())
}

// watchConfig reloads rates and banners when files under the config dir
// change. A broken file keeps the previous configuration in service.
func watchConfig(loader *game.Loader, s *service.Service) (*game.FileWatcher, error) {
	paths := loader.Paths()
	var dirs []string
	for _, d := range []string{paths.BaseDir, paths.RatesDir()} {
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			dirs = append(dirs, d)
		}
	}
	if len(dirs) == 0 {
		return nil, nil
	}
	fw, err := game.NewFileWatcher(dirs, 200*time.Millisecond, func(path string) {
		switch {
		case filepath.Clean(path) == filepath.Clean(paths.CatalogPath()):
			if viper.GetString("catalog.url") != "" {
				return
			}
			cat, err := catalog.LoadFile(path)
			if err != nil {
				log.Errorf("reload %s: %v", path, err)
				return
			}
			s.Reload(cat, nil)
		case filepath.Dir(filepath.Clean(path)) == filepath.Clean(paths.RatesDir()):
			loader.Invalidate()
			sim, err := loader.Simulator()
			if err != nil {
				log.Errorf("reload rates after %s: %v", path, err)
				return
			}
			s.Reload(nil, sim)
		}
	})
	if err != nil {
		return nil, err
	}
	fw.Start()
	return fw, nil
}

func main() {
	pflag.Parse()
	bindConfig()
	if err := mergeMainConfig(viper.GetString("config.dir")); err != nil {
		log.Fatal("merge main config err: ", err)
	}
	if err := setupLogger(); err != nil {
		log.Fatal("setupLogger err: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := game.NewLoader(viper.GetString("config.dir"))
	sim, err := loader.Simulator()
	if err != nil {
		log.Fatal("load rates err: ", err)
	}
	cat, err := loadCatalog(ctx, loader.Paths())
	if err != nil {
		log.Fatal("load banners err: ", err)
	}

	var rng gacha.RandomSource
	if seed := viper.GetUint64("rng.seed"); seed != 0 {
		rng = gacha.NewSeededRNG(seed)
		log.WithField("seed", seed).Warn("wishes use a seeded RNG")
	}
	svc = service.New(cat, sim, rng)

	fw, err := watchConfig(loader, svc)
	if err != nil {
		log.Warnf("config watcher disabled: %v", err)
	} else if fw != nil {
		defer fw.Stop()
	}

	hs := &http.Server{
		Addr:              viper.GetString("http.address"),
		Handler:           newMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infof("http listening on %s ...", hs.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	if addr := viper.GetString("grpc.address"); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			log.Fatal(err)
		}
		gs := rpc.NewServer(svc)
		go func() {
			log.Infof("grpc listening on %s ...", addr)
			if err := gs.Serve(lis); err != nil {
				log.Error(err)
			}
		}()
		defer gs.GracefulStop()
	}

	log.WithField("banners", cat.Len()).Info("wishsim started")
	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = hs.Shutdown(shutdownCtx)
}
