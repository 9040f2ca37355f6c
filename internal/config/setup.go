package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RunSetup runs the interactive setup wizard and returns the resulting
// config. If existing is non-nil, it is used as the default for each
// prompt (edit mode). Paths that fail validation re-prompt.
func RunSetup(existing *Config) (*Config, error) {
	r := bufio.NewReader(os.Stdin)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Printf("%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Printf("%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	askBool := func(prompt string, defaultVal bool) (bool, error) {
		def := "n"
		if defaultVal {
			def = "y"
		}
		ans, err := ask(prompt+" (y/n)", def)
		if err != nil {
			return false, err
		}
		return strings.ToLower(ans) == "y" || strings.ToLower(ans) == "yes", nil
	}

	cfg := Defaults()
	if existing != nil {
		cfg = *existing
	}

	fmt.Println()
	fmt.Println("  ┌──────────────────────────────────────────┐")
	fmt.Println("  │   screenshot-manager — source setup      │")
	fmt.Println("  └──────────────────────────────────────────┘")
	fmt.Println()

	var err error

	cfg.Sources.FolderEnabled, err = askBool("  Watch a screenshot folder", cfg.Sources.FolderEnabled)
	if err != nil {
		return nil, err
	}
	if cfg.Sources.FolderEnabled {
		for {
			cfg.Sources.FolderPath, err = ask("  Screenshot folder", suggestFolder(cfg.Sources.FolderPath))
			if err != nil {
				return nil, err
			}
			info, statErr := os.Stat(cfg.Sources.FolderPath)
			if statErr != nil || !info.IsDir() {
				fmt.Printf("  %s is not an existing directory\n", cfg.Sources.FolderPath)
				continue
			}
			break
		}
	}

	cfg.Sources.ListEnabled, err = askBool("  Follow a screenshot list file", cfg.Sources.ListEnabled)
	if err != nil {
		return nil, err
	}
	if cfg.Sources.ListEnabled {
		for {
			cfg.Sources.ListPath, err = ask("  List file (one image path per line)", cfg.Sources.ListPath)
			if err != nil {
				return nil, err
			}
			info, statErr := os.Stat(cfg.Sources.ListPath)
			if statErr != nil || info.IsDir() {
				fmt.Printf("  %s is not an existing file\n", cfg.Sources.ListPath)
				continue
			}
			break
		}
	}

	for {
		ans, askErr := ask("  Pen width (1-64)", strconv.Itoa(cfg.PenWidth))
		if askErr != nil {
			return nil, askErr
		}
		w, convErr := strconv.Atoi(ans)
		if convErr != nil || w < 1 || w > 64 {
			fmt.Println("  enter a number between 1 and 64")
			continue
		}
		cfg.PenWidth = w
		break
	}

	fmt.Println()
	return &cfg, nil
}

// suggestFolder proposes the usual screenshots directory when nothing is
// configured yet.
func suggestFolder(current string) string {
	if current != "" {
		return current
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Pictures", "Screenshots")
}
