// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGrpcAddress       = "127.0.0.1"
	DefaultTapAddress        = "0.0.0.0"
	DefaultTapPort           = "4189"
	DefaultMetricsAddress    = "127.0.0.1"
	DefaultMetricsPort       = "9189"
	DefaultMaxSubobjectDepth = 4
)

type GrpcServer struct {
	Address string `yaml:"address"`
	Port    string `yaml:"port"`
}

// Tap is the passive PCEP listener.
type Tap struct {
	Address string `yaml:"address"`
	Port    string `yaml:"port"`
	Enabled bool   `yaml:"enabled"`
}

type Metrics struct {
	Address string `yaml:"address"`
	Port    string `yaml:"port"`
	Enabled bool   `yaml:"enabled"`
}

type Log struct {
	Path  string `yaml:"path"`
	Name  string `yaml:"name"`
	Debug bool   `yaml:"debug"`
}

// Codec holds the decoder settings shared by the gRPC service and the tap.
type Codec struct {
	KeepUnknownTLVs       bool    `yaml:"keepUnknownTLVs"`
	MaxSubobjectDepth     int     `yaml:"maxSubobjectDepth"`
	DisabledObjectClasses []uint8 `yaml:"disabledObjectClasses"`
}

type Global struct {
	GrpcServer GrpcServer `yaml:"grpcServer"`
	Tap        Tap        `yaml:"tap"`
	Metrics    Metrics    `yaml:"metrics"`
	Log        Log        `yaml:"log"`
	Codec      Codec      `yaml:"codec"`
}

type Config struct {
	Global Global `yaml:"global"`
}

func ReadConfigFile(configFile string) (Config, error) {
	f, err := os.Open(configFile)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a YAML configuration, fills in defaults and checks the
// mandatory keys.
func Decode(r io.Reader) (Config, error) {
	var c Config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return c, errors.New("config is empty")
		}
		return c, fmt.Errorf("failed to decode config: %w", err)
	}
	c.setDefaults()
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) setDefaults() {
	g := &c.Global
	if g.GrpcServer.Address == "" {
		g.GrpcServer.Address = DefaultGrpcAddress
	}
	if g.Tap.Address == "" {
		g.Tap.Address = DefaultTapAddress
	}
	if g.Tap.Port == "" {
		g.Tap.Port = DefaultTapPort
	}
	if g.Metrics.Address == "" {
		g.Metrics.Address = DefaultMetricsAddress
	}
	if g.Metrics.Port == "" {
		g.Metrics.Port = DefaultMetricsPort
	}
	if g.Codec.MaxSubobjectDepth == 0 {
		g.Codec.MaxSubobjectDepth = DefaultMaxSubobjectDepth
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Global.GrpcServer.Port == "" {
		errs = append(errs, errors.New("global.grpcServer.port is mandatory"))
	}
	if c.Global.Log.Path == "" {
		errs = append(errs, errors.New("global.log.path is mandatory"))
	}
	if c.Global.Log.Name == "" {
		errs = append(errs, errors.New("global.log.name is mandatory"))
	}
	if c.Global.Codec.MaxSubobjectDepth < 0 {
		errs = append(errs, fmt.Errorf("global.codec.maxSubobjectDepth must be positive: %d", c.Global.Codec.MaxSubobjectDepth))
	}
	return errors.Join(errs...)
}
