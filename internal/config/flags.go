package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by the movierec and movierecd commands
const (
	FlagAPIURL     = "api-url"
	FlagArtworkURL = "artwork-url"
	FlagPort       = "port"
	FlagCount      = "count"
)

// ApplyFlags overrides config values with flags the user set explicitly.
// Flags that are not registered on fs are ignored.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) {
	if fs == nil {
		return
	}

	if v, ok := changedString(fs, FlagAPIURL); ok {
		c.APIURL = v
	}
	if v, ok := changedString(fs, FlagArtworkURL); ok {
		c.ArtworkURL = v
	}
	if v, ok := changedString(fs, FlagPort); ok {
		c.Port = v
	}
	if f := fs.Lookup(FlagCount); f != nil && f.Changed {
		if k, err := fs.GetInt(FlagCount); err == nil && k > 0 {
			c.RecommendCount = k
		}
	}
}

func changedString(fs *pflag.FlagSet, name string) (string, bool) {
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return "", false
	}
	v, err := fs.GetString(name)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}
