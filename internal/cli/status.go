package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/clawmon/clawmon/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ clawmon Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status via the admin console",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 clawmon Status")
		fmt.Printf("Version: %s\n", version)

		path, _ := config.ConfigPath()
		if _, err := os.Stat(path); err == nil {
			fmt.Println("Config:  ✓ Found (" + path + ")")
		} else {
			fmt.Println("Config:  ✗ Not found (" + path + ")")
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Config load failed: %v\n", err)
			return
		}

		status, err := fetchStatus(cfg)
		if err != nil {
			fmt.Printf("Console: ✗ Unreachable (%v)\n", err)
			return
		}
		fmt.Println("Console: ✓ Running")
		fmt.Printf("Model:    %s\n", status.Model)
		fmt.Printf("Uptime:   %s\n", status.UptimeHuman)
		fmt.Printf("Channels: %s\n", orNone(strings.Join(status.Channels, ", ")))
		if jobs, ok := status.Cron["jobs"].(float64); ok && jobs > 0 {
			fmt.Printf("Cron:     %s\n", color.GreenString("%d job(s)", int(jobs)))
		}
	},
}

type statusResponse struct {
	Model       string         `json:"model"`
	UptimeHuman string         `json:"uptime_human"`
	Channels    []string       `json:"channels"`
	Cron        map[string]any `json:"cron"`
}

// fetchStatus queries the local console's /api/status with the configured
// admin password.
func fetchStatus(cfg *config.Config) (*statusResponse, error) {
	host := cfg.Admin.Host
	if host == "0.0.0.0" || host == "" {
		host = "127.0.0.1"
	}
	url := fmt.Sprintf("http://%s:%d/api/status", host, cfg.Admin.Port)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if cfg.Admin.Password != "" {
		req.SetBasicAuth("admin", cfg.Admin.Password)
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("console returned %s", resp.Status)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
