package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrLoginHashMismatch = errors.New("telegram login hash does not match")
	ErrLoginExpired      = errors.New("telegram login data is too old")
	ErrLoginIncomplete   = errors.New("telegram login data is incomplete")
)

// LoginData is the payload the Telegram Login Widget hands to the browser.
type LoginData struct {
	ID        int64  `json:"id" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date" binding:"required"`
	Hash      string `json:"hash" binding:"required"`
}

// dataCheckString joins the present fields as sorted key=value lines.
func (d LoginData) dataCheckString() string {
	fields := map[string]string{
		"id":        strconv.FormatInt(d.ID, 10),
		"auth_date": strconv.FormatInt(d.AuthDate, 10),
	}
	if d.FirstName != "" {
		fields["first_name"] = d.FirstName
	}
	if d.LastName != "" {
		fields["last_name"] = d.LastName
	}
	if d.Username != "" {
		fields["username"] = d.Username
	}
	if d.PhotoURL != "" {
		fields["photo_url"] = d.PhotoURL
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + fields[k]
	}
	return strings.Join(lines, "\n")
}

// Sign computes the widget hash for d with the given bot token.
func (d LoginData) Sign(botToken string) string {
	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(d.dataCheckString()))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyLogin checks the widget signature and that auth_date is no older
// than maxAge. A zero maxAge skips the age check.
func VerifyLogin(d LoginData, botToken string, maxAge time.Duration, now time.Time) error {
	if d.ID == 0 || d.AuthDate == 0 || d.Hash == "" {
		return ErrLoginIncomplete
	}
	want := d.Sign(botToken)
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(d.Hash))) {
		return ErrLoginHashMismatch
	}
	if maxAge > 0 && now.Sub(time.Unix(d.AuthDate, 0)) > maxAge {
		return ErrLoginExpired
	}
	return nil
}
