package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/jgoulah/energyadvisor/internal/config"
	"github.com/jgoulah/energyadvisor/internal/consumption"
	"github.com/jgoulah/energyadvisor/internal/logging"
	"github.com/jgoulah/energyadvisor/pkg/models"
)

const publishTimeout = 5 * time.Second

// Publisher pushes analyses to an MQTT broker and household consumption to
// Home Assistant
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
	log         *slog.Logger
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, haCfg config.HAConfig, logger *slog.Logger) (*Publisher, error) {
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	var client mqtt.Client
	topicPrefix := mqttCfg.TopicPrefix
	if topicPrefix == "" {
		topicPrefix = "energyadvisor"
	}

	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("energyadvisor-" + uuid.NewString()[:8])
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return newPublisher(client, topicPrefix, haCfg, logger), nil
}

func newPublisher(client mqtt.Client, topicPrefix string, haCfg config.HAConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		haConfig:    haCfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		log:         logger.With("component", "publisher"),
	}
}

// MQTTEnabled reports whether analyses can be published
func (p *Publisher) MQTTEnabled() bool {
	return p.client != nil
}

// HAEnabled reports whether household consumption can be pushed to Home Assistant
func (p *Publisher) HAEnabled() bool {
	return p.haConfig.Enabled
}

// AnalysisSummary is the retained payload of the summary topic
type AnalysisSummary struct {
	UserID       int64   `json:"usuario_id"`
	Rooms        int     `json:"comodos"`
	TotalSavings float64 `json:"total_economia_potencial_reais"`
	Summary      string  `json:"resumo"`
	Source       string  `json:"fonte"`
	UpdatedAt    string  `json:"atualizado_em"`
}

// PublishAnalysis publishes one retained state message per room under
// {prefix}/user_{id}/{room}/state and a summary under {prefix}/user_{id}/summary
func (p *Publisher) PublishAnalysis(userID int64, result models.AnalysisResult) error {
	if p.client == nil {
		return fmt.Errorf("MQTT publishing is not enabled in config")
	}

	base := fmt.Sprintf("%s/user_%d", p.topicPrefix, userID)
	for _, room := range result.Rooms {
		topic := fmt.Sprintf("%s/%s/state", base, Slug(room.Room, room.RoomID))
		if err := p.publishJSON(topic, room); err != nil {
			return err
		}
	}

	summary := AnalysisSummary{
		UserID:       userID,
		Rooms:        len(result.Rooms),
		TotalSavings: result.TotalSavings,
		Summary:      result.Summary,
		Source:       string(result.Source),
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := p.publishJSON(base+"/summary", summary); err != nil {
		return err
	}

	p.log.Info("Published analysis", "user_id", userID, "rooms", len(result.Rooms), "topic", base)
	return nil
}

func (p *Publisher) publishJSON(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding payload for %s: %w", topic, err)
	}

	token := p.client.Publish(topic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	p.log.Debug("Published message", "topic", topic, "bytes", len(payload))
	return nil
}

// HAState is the body of a Home Assistant state update
type HAState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// PublishMonthlyConsumption sets the Home Assistant entity to the household
// monthly kWh
func (p *Publisher) PublishMonthlyConsumption(ctx context.Context, totals models.ConsumptionTotals) error {
	if !p.haConfig.Enabled {
		return fmt.Errorf("Home Assistant publishing is not enabled in config")
	}

	apiURL := fmt.Sprintf("%s/api/states/%s", strings.TrimRight(p.haConfig.URL, "/"), p.haConfig.EntityID)

	payload := HAState{
		State: fmt.Sprintf("%.2f", totals.MonthlyKWh),
		Attributes: map[string]any{
			"unit_of_measurement": "kWh",
			"device_class":        "energy",
			"custo_mensal_reais":  consumption.Round2(totals.MonthlyBRL),
			"comodos":             totals.Rooms,
			"aparelhos":           totals.Appliances,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	p.log.Info("Published monthly consumption", "entity_id", p.haConfig.EntityID, "kwh", payload.State)
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

var accents = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// Slug turns a room name into a topic segment. Names with nothing usable
// fall back to room_{id}.
func Slug(name string, id int64) string {
	s := accents.Replace(strings.ToLower(strings.TrimSpace(name)))

	var b strings.Builder
	underscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		case b.Len() > 0 && !underscore:
			b.WriteByte('_')
			underscore = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "_")
	if slug == "" {
		return fmt.Sprintf("room_%d", id)
	}
	return slug
}
