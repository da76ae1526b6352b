package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/quizgen/internal/llm"
)

// viperForCmd binds a command's flags and environment to a fresh viper
// instance. Values resolve flag, then QUIZGEN_* env var, then quizgen.yaml.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("QUIZGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("quizgen")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/quizgen")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn().Err(err).Msg("error reading config file")
		}
	}

	return v
}

// llmConfig builds the provider configuration. An explicit --provider wins;
// otherwise the first provider with an API key in the environment is used.
func llmConfig(v *viper.Viper) (llm.Config, error) {
	var cfg llm.Config
	if p := v.GetString("provider"); p != "" {
		cfg = llm.DefaultConfig()
		cfg.Provider = strings.ToLower(p)
		cfg.FillKeysFromEnv()
	} else {
		var ok bool
		cfg, ok = llm.DiscoverConfig()
		if !ok {
			return llm.Config{}, fmt.Errorf("no LLM provider configured: set PERPLEXITY_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY")
		}
	}
	cfg.SetModel(v.GetString("model"))

	if n := v.GetInt("retries"); n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	if d := v.GetDuration("timeout"); d > 0 {
		cfg.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return llm.Config{}, err
	}
	return cfg, nil
}
