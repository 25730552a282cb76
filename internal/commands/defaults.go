package commands

import (
	"strings"

	"github.com/spf13/viper"
)

// Defaults are the tool-level defaults a user can pin in ~/.djinn.yml or
// through DJINN_* environment variables, so teams don't have to repeat
// the same flags on every invocation.
type Defaults struct {
	Layout   string
	Database string
	CI       string
	DBURL    bool
}

// LoadDefaults reads tool defaults. A missing config file is fine; the
// built-in defaults apply.
func LoadDefaults() Defaults {
	v := viper.New()
	v.SetConfigName(".djinn")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")

	v.AutomaticEnv()
	v.SetEnvPrefix("DJINN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("layout", "standard")
	v.SetDefault("database", "postgres")
	v.SetDefault("ci", "none")
	v.SetDefault("db_url", true)

	_ = v.ReadInConfig() // optional

	return Defaults{
		Layout:   v.GetString("layout"),
		Database: v.GetString("database"),
		CI:       v.GetString("ci"),
		DBURL:    v.GetBool("db_url"),
	}
}
