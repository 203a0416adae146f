package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"data_dir":          "data",
		"output_dir":        "dist",
		"workers":           4,
		"log_level":         "info",
		"show_progress":     true,
		"watch_debounce_ms": 300,
		"watch_ignore": []string{
			".*",
			"*~",
			"*.swp",
		},
	}
}
