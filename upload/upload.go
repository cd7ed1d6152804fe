// Package upload publishes a finished short to YouTube. It is an
// optional stage; the rendered file stays the primary artifact.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"

	"github.com/mikeoller82/youtube-shorts-generator/config"
	"github.com/mikeoller82/youtube-shorts-generator/types"
)

type Uploader struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Run uploads the video with its agent-generated metadata and returns
// the video ID and watch URL.
func (u *Uploader) Run(ctx context.Context, videoFile string, metadata *types.VideoMetadata) (string, string, error) {
	log.Println("[upload] Authenticating with YouTube API...")

	client, err := u.oauthClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", "", fmt.Errorf("youtube service: %w", err)
	}

	visibility := metadata.Visibility
	if visibility == "" {
		visibility = u.cfg.Upload.Visibility
	}
	categoryID := metadata.CategoryID
	if categoryID == "" {
		categoryID = u.cfg.Upload.CategoryID
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       metadata.Title,
			Description: metadata.Description,
			Tags:        metadata.Tags,
			CategoryId:  categoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           visibility,
			SelfDeclaredMadeForKids: u.cfg.Upload.MadeForKids,
		},
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	log.Printf("[upload] Uploading %q...", metadata.Title)
	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.NotifySubscribers(u.cfg.Upload.NotifySubscribers)
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("youtube upload: %w", err)
	}

	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id)
	log.Printf("[upload] ✅ Uploaded: %s", videoURL)
	return uploaded.Id, videoURL, nil
}

// oauthClient builds an OAuth2 HTTP client from env credentials.
func (u *Uploader) oauthClient(ctx context.Context) (*http.Client, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope},
	}
	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}
	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}

// LogUpload records the upload result in the logs directory.
func LogUpload(videoID, videoURL, videoFile, logsDir string, metadata *types.VideoMetadata) error {
	entry := map[string]interface{}{
		"video_id":    videoID,
		"video_url":   videoURL,
		"title":       metadata.Title,
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
		"video_file":  videoFile,
	}

	logFile := filepath.Join(logsDir, fmt.Sprintf("upload_%s.json", time.Now().Format("20060102_150405")))
	data, _ := json.MarshalIndent(entry, "", "  ")
	if err := os.WriteFile(logFile, data, 0644); err != nil {
		return err
	}
	log.Printf("[upload] Upload log saved: %s", logFile)
	return nil
}
