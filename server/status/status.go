package status

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Mmx233/Cubic/protocol"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrInvalidFavicon = errors.New("invalid favicon")

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

const cacheKey = "status"

// Counter reports how many players are online.
type Counter interface {
	Online() int
}

type Options struct {
	Motd       string
	MaxPlayers int
	Online     Counter // optional

	// FaviconFile is a PNG shown next to the server in the client's list.
	FaviconFile string

	// CacheTTL is how long a rendered document is reused. Zero disables
	// caching.
	CacheTTL time.Duration
}

type version struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type players struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

type description struct {
	Text string `json:"text"`
}

// Response is the server list document sent in StatusResponse.
type Response struct {
	Version            version     `json:"version"`
	Players            players     `json:"players"`
	Description        description `json:"description"`
	Favicon            string      `json:"favicon,omitempty"`
	EnforcesSecureChat bool        `json:"enforcesSecureChat"`
}

// Provider renders the status document and caches the result.
type Provider struct {
	opts    Options
	favicon string
	cache   *cache.Cache
	group   singleflight.Group
}

func New(opts Options) (*Provider, error) {
	p := &Provider{opts: opts}
	if opts.FaviconFile != "" {
		data, err := os.ReadFile(opts.FaviconFile)
		if err != nil {
			return nil, fmt.Errorf("read favicon: %w", err)
		}
		favicon, err := EncodeFavicon(data)
		if err != nil {
			return nil, err
		}
		p.favicon = favicon
	}
	if opts.CacheTTL > 0 {
		// No janitor goroutine, the single entry is replaced once it expires.
		p.cache = cache.New(opts.CacheTTL, 0)
	}
	return p, nil
}

// EncodeFavicon turns PNG bytes into the data URI clients expect.
func EncodeFavicon(png []byte) (string, error) {
	if !bytes.HasPrefix(png, pngSignature) {
		return "", fmt.Errorf("%w: not a PNG file", ErrInvalidFavicon)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Response builds the current document without touching the cache.
func (p *Provider) Response() Response {
	r := Response{
		Version:     version{Name: protocol.VersionName, Protocol: protocol.Version},
		Players:     players{Max: p.opts.MaxPlayers},
		Description: description{Text: p.opts.Motd},
		Favicon:     p.favicon,
	}
	if p.opts.Online != nil {
		r.Players.Online = p.opts.Online.Online()
	}
	return r
}

func (p *Provider) render() (string, error) {
	b, err := json.Marshal(p.Response())
	if err != nil {
		return "", fmt.Errorf("marshal status: %w", err)
	}
	return string(b), nil
}

// StatusJSON returns the rendered document, reusing a cached copy while it is
// fresh.
func (p *Provider) StatusJSON() (string, error) {
	if p.cache == nil {
		return p.render()
	}
	if v, found := p.cache.Get(cacheKey); found {
		return v.(string), nil
	}

	v, err, _ := p.group.Do(cacheKey, func() (any, error) {
		if v, found := p.cache.Get(cacheKey); found {
			return v, nil
		}
		doc, err := p.render()
		if err != nil {
			return nil, err
		}
		p.cache.SetDefault(cacheKey, doc)
		return doc, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
