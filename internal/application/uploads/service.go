package uploads

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const cloudinaryAPI = "https://api.cloudinary.com/v1_1"

var (
	ErrNotConfigured   = errors.New("Image uploads are not configured")
	ErrInvalidFolder   = errors.New("Folder must be one of listings, kyc or avatars")
	ErrInvalidPublicID = errors.New("public_id may contain only letters, digits, dashes and underscores")
)

// Folders that clients may upload into.
var allowedFolders = map[string]bool{"listings": true, "kyc": true, "avatars": true}

var publicIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// Service signs Cloudinary uploads. The browser posts the file straight to
// Cloudinary with the returned parameters.
type Service struct {
	CloudName string
	APIKey    string
	APISecret string
	Now       func() time.Time // defaults to time.Now
	Client    *http.Client
}

// SignedUpload matches the form fields Cloudinary expects, plus where to send them.
type SignedUpload struct {
	CloudName string `json:"cloud_name"`
	APIKey    string `json:"api_key"`
	Timestamp int64  `json:"timestamp"`
	Folder    string `json:"folder"`
	PublicID  string `json:"public_id,omitempty"`
	Signature string `json:"signature"`
	UploadURL string `json:"upload_url"`
}

func (s *Service) configured() bool {
	return s.CloudName != "" && s.APIKey != "" && s.APISecret != ""
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Sign returns upload parameters for folder. publicID is optional.
func (s *Service) Sign(folder, publicID string) (*SignedUpload, error) {
	if !s.configured() {
		return nil, ErrNotConfigured
	}
	folder = strings.ToLower(strings.TrimSpace(folder))
	if !allowedFolders[folder] {
		return nil, ErrInvalidFolder
	}
	publicID = strings.TrimSpace(publicID)
	if publicID != "" && !publicIDRe.MatchString(publicID) {
		return nil, ErrInvalidPublicID
	}

	ts := s.now().Unix()
	params := map[string]string{
		"folder":    folder,
		"timestamp": strconv.FormatInt(ts, 10),
	}
	if publicID != "" {
		params["public_id"] = publicID
	}
	return &SignedUpload{
		CloudName: s.CloudName,
		APIKey:    s.APIKey,
		Timestamp: ts,
		Folder:    folder,
		PublicID:  publicID,
		Signature: Signature(params, s.APISecret),
		UploadURL: fmt.Sprintf("%s/%s/image/upload", cloudinaryAPI, s.CloudName),
	}, nil
}

// Signature is Cloudinary's request signature: the params sorted by key and
// joined as k=v with "&", followed by the API secret, SHA-1 hex encoded.
func Signature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + params[k]
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// Ping reports whether the Cloudinary API answers.
func (s *Service) Ping(ctx context.Context) error {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, cloudinaryAPI, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
