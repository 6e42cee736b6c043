package pkgconfig

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding file values.
// For example DATASWEEPER_SERVER_ADDRESS_HTTP overrides server.address.http.
const EnvPrefix = "DATASWEEPER"

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper loads the config file at pathFile (type taken from its extension)
// and layers DATASWEEPER_* environment variables over it.
func NewViper(pathFile string) (*Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(pathFile)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(pathFile), "."))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.WatchConfig()

	return &Viper{v: v}, nil
}

func (vc *Viper) GetInt(key string) int64 {
	return vc.v.GetInt64(key)
}

func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetDuration returns the value for key parsed as a time.Duration (for example "30m").
func (vc *Viper) GetDuration(key string) time.Duration {
	return vc.v.GetDuration(key)
}

// GetSize accepts kb/mb/gb suffixes (powers of 1024) as understood by viper.
func (vc *Viper) GetSize(key string) int64 {
	return int64(vc.v.GetSizeInBytes(key)) //nolint:gosec // sizes fit in int64
}

func (vc *Viper) GetStrings(key string) []string {
	raw, ok := vc.v.Get(key).(string)
	if !ok {
		return vc.v.GetStringSlice(key)
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Close implements io.Closer; viper holds nothing that needs releasing.
func (vc *Viper) Close() error {
	return nil
}
