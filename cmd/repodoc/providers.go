package main

// Provider blank imports. Each import activates a self-registering LLM adapter.

import (
	_ "github.com/Strob0t/repodoc/internal/adapter/gemini"
	_ "github.com/Strob0t/repodoc/internal/adapter/ollama"
	_ "github.com/Strob0t/repodoc/internal/adapter/openai"
)
