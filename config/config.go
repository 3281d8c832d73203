package config

import (
  "errors"
  "os"
  "strings"
  "time"
  "github.com/joho/godotenv"
  "github.com/spf13/viper"
)

const EnvPrefix = "MEETUI"

func init() {
  setDefaults()
}

func setDefaults() {
  viper.SetDefault("serve.public.port", "443")
  viper.SetDefault("serve.tls.cert.path", "")
  viper.SetDefault("serve.tls.key.path", "")

  viper.SetDefault("session.authKey", "")
  viper.SetDefault("session.cryptKey", "")
  viper.SetDefault("session.secure", true)
  viper.SetDefault("csrf.authKey", "") // 32 byte long auth key. When you change this user session will break.
  viper.SetDefault("csrf.secure", true)

  viper.SetDefault("log.debug", 0)
  viper.SetDefault("log.format", "")
  viper.SetDefault("log.path", "")

  viper.SetDefault("auth.public.url", "http://localhost:3000/api/auth")
  viper.SetDefault("auth.public.endpoints.signin", "/sign-in/email")
  viper.SetDefault("auth.public.endpoints.signout", "/sign-out")
  viper.SetDefault("auth.timeout", time.Duration(0))

  viper.SetDefault("oauth2.client.id", "")
  viper.SetDefault("oauth2.client.secret", "")
  viper.SetDefault("oauth2.provider.url", "")
  viper.SetDefault("oauth2.token.url", "")
  viper.SetDefault("oauth2.scopes.required", []string{})

  viper.SetDefault("meetui.public.endpoints.root", "/")
  viper.SetDefault("meetui.public.endpoints.signin", "/sign-in")
  viper.SetDefault("meetui.public.endpoints.signup", "/sign-up")
  viper.SetDefault("meetui.public.endpoints.signout", "/sign-out")

  viper.SetDefault("brand.name", "Meet Ai")
  viper.SetDefault("brand.logo", "/public/images/logo.svg")
  viper.SetDefault("brand.year", 2025)
}

// InitConfigurations reads .env, the config file and MEETUI_ prefixed environment variables.
// An empty path looks for config.yml in the working directory and tolerates it missing.
func InitConfigurations(path string) error {
  err := godotenv.Load()
  if err != nil && !errors.Is(err, os.ErrNotExist) {
    return err
  }

  viper.SetEnvPrefix(EnvPrefix)
  viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
  viper.AutomaticEnv()

  if path != "" {
    viper.SetConfigFile(path)
    return viper.ReadInConfig()
  }

  viper.SetConfigName("config")
  viper.SetConfigType("yml")
  viper.AddConfigPath(".")
  err = viper.ReadInConfig()
  if err != nil {
    if _, ok := err.(viper.ConfigFileNotFoundError); ok {
      return nil
    }
    return err
  }
  return nil
}

func GetString(key string) string {
  return viper.GetString(key)
}

func GetInt(key string) int {
  return viper.GetInt(key)
}

func GetBool(key string) bool {
  return viper.GetBool(key)
}

func GetDuration(key string) time.Duration {
  return viper.GetDuration(key)
}

func GetStringSlice(key string) []string {
  return viper.GetStringSlice(key)
}
