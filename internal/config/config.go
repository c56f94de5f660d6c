package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Listen   string   `koanf:"listen"`
	Thing    string   `koanf:"thing"`
	Timezone string   `koanf:"timezone"`
	Database Database `koanf:"db"`
	MQTT     MQTT     `koanf:"mqtt"`
	Google   Google   `koanf:"google"`
	Calendar Calendar `koanf:"calendar"`
	Weather  Weather  `koanf:"weather"`
	Payload  Payload  `koanf:"payload"`
	Locale   Locale   `koanf:"locale"`
	Log      Log      `koanf:"log"`
}

type Database struct {
	Path string `koanf:"path"`
}

type MQTT struct {
	Endpoint string `koanf:"endpoint"`
	Port     int    `koanf:"port"`
	ClientId string `koanf:"clientid"`
	CAFile   string `koanf:"cafile"`
	CertFile string `koanf:"certfile"`
	KeyFile  string `koanf:"keyfile"`
	// TopicPrefix is the leading segment of the data topics,
	// e.g. "calendar" produces "calendar/<thing>/events".
	TopicPrefix    string `koanf:"topicprefix"`
	TimeoutSeconds int    `koanf:"timeoutseconds"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	RefreshToken string `koanf:"refreshtoken"`
}

type Calendar struct {
	Id          string `koanf:"id"`
	HorizonDays int    `koanf:"horizondays"`
	MaxResults  int64  `koanf:"maxresults"`
	Cron        string `koanf:"cron"`
}

type Weather struct {
	ApiKey      string `koanf:"apikey"`
	City        string `koanf:"city"`
	Units       string `koanf:"units"`
	Cron        string `koanf:"cron"`
	OffsetHours []int  `koanf:"offsethours"`
}

type Payload struct {
	MaxBytes int `koanf:"maxbytes"`
}

type Locale struct {
	WeekdaysShort []string `koanf:"weekdaysshort"`
	WeekdaysLong  []string `koanf:"weekdayslong"`
	Months        []string `koanf:"months"`
	AllDayLabel   string   `koanf:"alldaylabel"`
}

type Log struct {
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"maxsizemb"`
	MaxBackups int    `koanf:"maxbackups"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Listen:   ":8181",
		Timezone: "Europe/Helsinki",
		Database: Database{
			Path: "./inkfeed.db",
		},
		MQTT: MQTT{
			Port:           8883,
			ClientId:       "inkfeed",
			TopicPrefix:    "calendar",
			TimeoutSeconds: 10,
		},
		Calendar: Calendar{
			Id:          "primary",
			HorizonDays: 90,
			MaxResults:  50,
			Cron:        "*/15 * * * *",
		},
		Weather: Weather{
			Units:       "metric",
			Cron:        "*/30 * * * *",
			OffsetHours: []int{0, 6, 12, 18},
		},
		Payload: Payload{
			// The device MQTT buffer is 2048 bytes; leave headroom for
			// protocol overhead.
			MaxBytes: 1900,
		},
		Log: Log{
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}, "koanf"), nil)
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
		Prefix: "INKFEED_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "INKFEED_")), "_", ".")
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
