package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

const envPrefix = "EVENTPRO_"

type Application struct {
	Server      Server      `koanf:"server"`
	Log         Log         `koanf:"log"`
	Calendar    Calendar    `koanf:"calendar"`
	Planner     Planner     `koanf:"planner"`
	ImageEditor ImageEditor `koanf:"imageeditor"`
}

type Server struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"readtimeout"`
	WriteTimeout    time.Duration `koanf:"writetimeout"`
	IdleTimeout     time.Duration `koanf:"idletimeout"`
	ShutdownTimeout time.Duration `koanf:"shutdowntimeout"`
}

type Log struct {
	Level string `koanf:"level"`
}

type Calendar struct {
	WeekStartDay string `koanf:"weekstartday"`
}

type Planner struct {
	HistoryLimit    int    `koanf:"historylimit"`
	UpcomingLimit   int    `koanf:"upcominglimit"`
	SeedDemo        bool   `koanf:"seeddemo"`
	DefaultCategory string `koanf:"defaultcategory"`
}

type ImageEditor struct {
	Enabled  bool          `koanf:"enabled"`
	Endpoint string        `koanf:"endpoint"`
	ApiKey   string        `koanf:"apikey"`
	Timeout  time.Duration `koanf:"timeout"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Port:            8181,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: Log{
			Level: "info",
		},
		Calendar: Calendar{
			WeekStartDay: "sunday",
		},
		Planner: Planner{
			HistoryLimit:    50,
			UpcomingLimit:   5,
			SeedDemo:        true,
			DefaultCategory: "Geral",
		},
		ImageEditor: ImageEditor{
			Enabled: false,
			Timeout: 60 * time.Second,
		},
	}
}

// Load merges, in increasing priority, the defaults, the YAML file at path (optional)
// and EVENTPRO_ prefixed environment variables.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			// EVENTPRO_PLANNER_HISTORYLIMIT -> planner.historylimit
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
