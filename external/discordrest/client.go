package discordrest

import (
	"context"
	stderrors "errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/platform/resilience"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

const (
	defaultBaseURL = "https://discord.com/api/v10"
	userAgent      = "DiscordBot (https://github.com/riskibarqy/ssl-bot, 1.0)"

	// FlagEphemeral hides a message from everyone but the invoking user.
	FlagEphemeral = 1 << 6
)

var errDiscordTransient = crerr.New("discord transient failure")

type ClientConfig struct {
	BaseURL        string
	BotToken       string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the chat platform REST API: interaction follow-ups, channel
// messages and guild lookups.
type Client struct {
	http           *fasthttp.Client
	baseURL        string
	botToken       string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

type EmbedImage struct {
	URL string `json:"url"`
}

type Embed struct {
	Title string      `json:"title,omitempty"`
	Color int         `json:"color,omitempty"`
	Image *EmbedImage `json:"image,omitempty"`
}

// File is an attachment uploaded alongside a message.
type File struct {
	Name string
	Data []byte
}

type Message struct {
	Content string
	Embeds  []Embed
	Flags   int
	File    *File
}

type Guild struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	SystemChannelID        string `json:"system_channel_id"`
	ApproximateMemberCount int    `json:"approximate_member_count"`
}

type attachmentPayload struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
}

type messagePayload struct {
	Content     string              `json:"content,omitempty"`
	Embeds      []Embed             `json:"embeds,omitempty"`
	Flags       int                 `json:"flags,omitempty"`
	Attachments []attachmentPayload `json:"attachments,omitempty"`
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breakerCfg := cfg.CircuitBreaker.Normalize()
	breaker := resilience.NewNamedCircuitBreaker("discord-rest", breakerCfg, resilience.LogStateChanges(logger))
	logger.Debug("upstream client configured", append([]any{"breaker", "discord-rest", "base_url", baseURL}, breakerCfg.LogFields()...)...)

	return &Client{
		http: &fasthttp.Client{
			Name:                userAgent,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: 1 << 20,
		},
		baseURL:        baseURL,
		botToken:       strings.TrimSpace(cfg.BotToken),
		timeout:        timeout,
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Followup posts a message to an interaction webhook. Interaction tokens
// authorize the call, no bot token is needed.
func (c *Client) Followup(ctx context.Context, applicationID, interactionToken string, msg Message) error {
	applicationID = strings.TrimSpace(applicationID)
	interactionToken = strings.TrimSpace(interactionToken)
	if applicationID == "" || interactionToken == "" {
		return fmt.Errorf("%w: application id and interaction token are required", usecase.ErrInvalidInput)
	}

	endpoint := c.baseURL + "/webhooks/" + url.PathEscape(applicationID) + "/" + url.PathEscape(interactionToken)
	return c.send(ctx, endpoint, false, msg)
}

// CreateMessage posts a message to a channel using the bot token.
func (c *Client) CreateMessage(ctx context.Context, channelID string, msg Message) error {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return fmt.Errorf("%w: channel id is required", usecase.ErrInvalidInput)
	}
	if c.botToken == "" {
		return fmt.Errorf("%w: bot token is not configured", usecase.ErrDependencyUnavailable)
	}

	endpoint := c.baseURL + "/channels/" + url.PathEscape(channelID) + "/messages"
	return c.send(ctx, endpoint, true, msg)
}

// GetGuild returns the guild with approximate member counts.
func (c *Client) GetGuild(ctx context.Context, guildID string) (Guild, error) {
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return Guild{}, fmt.Errorf("%w: guild id is required", usecase.ErrInvalidInput)
	}
	if c.botToken == "" {
		return Guild{}, fmt.Errorf("%w: bot token is not configured", usecase.ErrDependencyUnavailable)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.baseURL + "/guilds/" + url.PathEscape(guildID) + "?with_counts=true")
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bot "+c.botToken)

	body, err := c.do(ctx, req)
	if err != nil {
		return Guild{}, fmt.Errorf("get guild id=%s: %w", guildID, err)
	}

	var guild Guild
	if err := sonic.Unmarshal(body, &guild); err != nil {
		return Guild{}, fmt.Errorf("%w: decode guild: %v", usecase.ErrMalformedData, err)
	}
	return guild, nil
}

func (c *Client) send(ctx context.Context, endpoint string, withBotToken bool, msg Message) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	if withBotToken {
		req.Header.Set("Authorization", "Bot "+c.botToken)
	}

	payload := messagePayload{
		Content: msg.Content,
		Embeds:  msg.Embeds,
		Flags:   msg.Flags,
	}
	if msg.File == nil {
		body, err := sonic.Marshal(payload)
		if err != nil {
			return crerr.Wrap(err, "marshal message payload")
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	} else {
		payload.Attachments = []attachmentPayload{{ID: 0, Filename: msg.File.Name}}
		if err := writeMultipart(req, payload, *msg.File); err != nil {
			return err
		}
	}

	if _, err := c.do(ctx, req); err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}

func writeMultipart(req *fasthttp.Request, payload messagePayload, file File) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := multipart.NewWriter(buf)
	payloadJSON, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal message payload")
	}

	jsonHeader := make(textproto.MIMEHeader)
	jsonHeader.Set("Content-Disposition", `form-data; name="payload_json"`)
	jsonHeader.Set("Content-Type", "application/json")
	part, err := writer.CreatePart(jsonHeader)
	if err != nil {
		return crerr.Wrap(err, "create payload_json part")
	}
	if _, err := part.Write(payloadJSON); err != nil {
		return crerr.Wrap(err, "write payload_json part")
	}

	fileHeader := make(textproto.MIMEHeader)
	fileHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files[0]"; filename=%q`, file.Name))
	fileHeader.Set("Content-Type", "image/png")
	part, err = writer.CreatePart(fileHeader)
	if err != nil {
		return crerr.Wrap(err, "create file part")
	}
	if _, err := part.Write(file.Data); err != nil {
		return crerr.Wrap(err, "write file part")
	}
	if err := writer.Close(); err != nil {
		return crerr.Wrap(err, "close multipart writer")
	}

	req.Header.SetContentType(writer.FormDataContentType())
	// SetBody copies, the pooled buffer can be returned afterwards.
	req.SetBody(buf.B)
	return nil
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "discord circuit breaker rejected request", "state", string(c.breaker.State()))
			return nil, fmt.Errorf("%w: chat platform is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		callErr := crerr.Wrapf(errDiscordTransient, "request %s: %v", redactURI(req), err)
		c.recordCircuitResult(callErr)
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, callErr)
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if status/100 == 2 {
		c.recordCircuitResult(nil)
		return body, nil
	}

	if isDiscordRetryableStatus(status) {
		callErr := crerr.Wrapf(errDiscordTransient, "status=%d uri=%s body=%s", status, redactURI(req), truncateForLog(string(body), 512))
		c.recordCircuitResult(callErr)
		c.logger.WarnContext(ctx, "discord request failed", "status", status, "uri", redactURI(req))
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, callErr)
	}

	c.recordCircuitResult(nil)
	callErr := fmt.Errorf("status=%d uri=%s body=%s", status, redactURI(req), truncateForLog(string(body), 512))
	if status == fasthttp.StatusNotFound {
		return nil, fmt.Errorf("%w: %v", usecase.ErrNotFound, callErr)
	}
	return nil, callErr
}

// redactURI drops interaction tokens from webhook URIs before they are logged.
func redactURI(req *fasthttp.Request) string {
	uri := string(req.URI().Path())
	if idx := strings.Index(uri, "/webhooks/"); idx >= 0 {
		rest := strings.SplitN(uri[idx+len("/webhooks/"):], "/", 2)
		return uri[:idx] + "/webhooks/" + rest[0] + "/***"
	}
	return uri
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errDiscordTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isDiscordRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}
