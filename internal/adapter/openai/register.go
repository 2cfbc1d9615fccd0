package openai

import "github.com/Strob0t/repodoc/internal/port/llm"

func init() {
	llm.Register(ProviderName, func(cfg llm.Config) (llm.Provider, error) {
		return NewClient(cfg.URL, cfg.APIKey, cfg.Timeout), nil
	})
}
