package utils

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"

	"lms/config"
)

// FetchVideoDuration asks the video hosting provider for the duration of an
// uploaded video. Used to autofill lesson durations when an admin creates a
// lesson without one. Returns 0 when the catalog is not configured or the
// lookup fails, callers treat that as "duration unknown".
func FetchVideoDuration(videoURL string) int {
	if config.AppConfig.VideoCatalogURL == "" || videoURL == "" {
		return 0
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.VideoCatalogKey).
		SetQueryParam("url", videoURL).
		Get(config.AppConfig.VideoCatalogURL + "/v1/videos/metadata")
	if err != nil {
		log.Printf("[VIDEO-CATALOG] Lookup error for %s: %v", videoURL, err)
		return 0
	}
	if resp.StatusCode() != 200 {
		log.Printf("[VIDEO-CATALOG] Lookup failed for %s: %d %s", videoURL, resp.StatusCode(), resp.String())
		return 0
	}

	var meta struct {
		DurationSeconds int `json:"duration_seconds"`
	}
	if err := json.Unmarshal(resp.Body(), &meta); err != nil {
		log.Printf("[VIDEO-CATALOG] Invalid metadata response: %v", err)
		return 0
	}
	if meta.DurationSeconds < 0 {
		log.Println("[VIDEO-CATALOG] Provider returned negative duration, ignoring")
		return 0
	}
	return meta.DurationSeconds
}

// formatDuration renders seconds as h/m for email and log output
func formatDuration(seconds int) string {
	if seconds < 3600 {
		return fmt.Sprintf("%dm", seconds/60)
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}
