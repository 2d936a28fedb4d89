package bilibili

import (
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/mgpai22/danmu/internal/danmaku"
)

const (
	DefaultAPIBaseURL     = "https://api.bilibili.com"
	DefaultCommentBaseURL = "https://comment.bilibili.com"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	referer               = "https://www.bilibili.com"

	defaultWidth  = 1920
	defaultHeight = 1080
)

// ErrAPI wraps a non-zero status code reported in a bilibili response body.
var ErrAPI = errors.New("bilibili api error")

// Metadata describes a video or bangumi episode.
type Metadata struct {
	Title    string
	BVID     string
	AID      int64
	CID      int64 // comment track id
	Duration float64
	Width    int
	Height   int
	Owner    string
	Cover    string
}

// CanonicalID prefers the BV code, falling back to the av number.
func (m *Metadata) CanonicalID() string {
	if m.BVID != "" {
		return m.BVID
	}
	if m.AID != 0 {
		return "av" + strconv.FormatInt(m.AID, 10)
	}
	return strconv.FormatInt(m.CID, 10)
}

// Source is the set of remote operations the CLI depends on.
type Source interface {
	FetchMetadata(ctx context.Context, id VideoID) (*Metadata, error)
	FetchComments(ctx context.Context, cid int64) ([]danmaku.RawRecord, error)
}

// Client talks to the public bilibili web endpoints.
type Client struct {
	apiBaseURL     string
	commentBaseURL string
	userAgent      string
	httpClient     *http.Client
}

var _ Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the metadata API base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.apiBaseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithCommentBaseURL overrides the comment XML base URL.
func WithCommentBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.commentBaseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

func New(opts ...Option) *Client {
	client := &Client{
		apiBaseURL:     DefaultAPIBaseURL,
		commentBaseURL: DefaultCommentBaseURL,
		userAgent:      DefaultUserAgent,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// FetchMetadata resolves an id to its title, comment track and dimensions.
func (c *Client) FetchMetadata(ctx context.Context, id VideoID) (*Metadata, error) {
	switch id.Kind {
	case KindEP:
		return c.fetchEpisode(ctx, id.Value)
	case KindBV:
		return c.fetchVideo(ctx, url.Values{"bvid": {id.Value}})
	case KindAV:
		return c.fetchVideo(ctx, url.Values{"aid": {id.Value}})
	default:
		return nil, fmt.Errorf("%w: unsupported id kind %q", ErrUnrecognizedID, id.Kind)
	}
}

func (c *Client) fetchVideo(ctx context.Context, params url.Values) (*Metadata, error) {
	body, err := c.getJSON(ctx, c.apiBaseURL+"/x/web-interface/view", params)
	if err != nil {
		return nil, fmt.Errorf("failed to get video info: %w", err)
	}

	data := gjson.GetBytes(body, "data")
	meta := &Metadata{
		Title:    data.Get("title").String(),
		BVID:     data.Get("bvid").String(),
		AID:      data.Get("aid").Int(),
		CID:      data.Get("cid").Int(),
		Duration: data.Get("duration").Float(),
		Owner:    data.Get("owner.name").String(),
		Cover:    data.Get("pic").String(),
	}
	meta.Width, meta.Height = dimension(data.Get("dimension"))

	if meta.CID == 0 {
		return nil, fmt.Errorf("failed to get video info: response has no cid")
	}
	return meta, nil
}

func (c *Client) fetchEpisode(ctx context.Context, epID string) (*Metadata, error) {
	body, err := c.getJSON(ctx, c.apiBaseURL+"/pgc/view/web/season", url.Values{"ep_id": {epID}})
	if err != nil {
		return nil, fmt.Errorf("failed to get bangumi info: %w", err)
	}

	result := gjson.GetBytes(body, "result")
	var episode gjson.Result
	result.Get("episodes").ForEach(func(_, ep gjson.Result) bool {
		if ep.Get("id").String() == epID {
			episode = ep
			return false
		}
		return true
	})
	if !episode.Exists() {
		return nil, fmt.Errorf("episode %s not found", epID)
	}

	title := episode.Get("long_title").String()
	if title == "" {
		title = episode.Get("title").String()
	}
	owner := result.Get("up_info.name").String()
	if owner == "" {
		owner = "Unknown"
	}

	meta := &Metadata{
		Title:    title,
		BVID:     episode.Get("bvid").String(),
		AID:      episode.Get("aid").Int(),
		CID:      episode.Get("cid").Int(),
		Duration: episode.Get("duration").Float() / 1000,
		Owner:    owner,
		Cover:    episode.Get("cover").String(),
	}
	meta.Width, meta.Height = dimension(episode.Get("dimension"))
	return meta, nil
}

// dimension falls back to 1920x1080 when the payload omits it
func dimension(d gjson.Result) (int, int) {
	w := int(d.Get("width").Int())
	h := int(d.Get("height").Int())
	if w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}

// FetchComments downloads the comment XML for a comment track.
func (c *Client) FetchComments(ctx context.Context, cid int64) ([]danmaku.RawRecord, error) {
	endpoint := fmt.Sprintf("%s/%d.xml", c.commentBaseURL, cid)

	resp, err := c.do(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get danmaku: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "deflate") {
		inflater := flate.NewReader(resp.Body)
		defer func() { _ = inflater.Close() }()
		body = inflater
	}

	records, err := ParseCommentXML(body)
	if err != nil {
		return nil, fmt.Errorf("failed to get danmaku: %w", err)
	}
	return records, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	resp, err := c.do(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json response")
	}

	if code := gjson.GetBytes(body, "code").Int(); code != 0 {
		return nil, fmt.Errorf("%w %d: %s", ErrAPI, code, gjson.GetBytes(body, "message").String())
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp, nil
}
