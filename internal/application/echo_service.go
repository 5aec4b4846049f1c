package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

// GardenState is the response for the garden view: recent echoes plus the
// plant counts per growth stage.
type GardenState struct {
	Echoes       []*entity.Echo `json:"echoes"`
	PlantsByType map[string]int `json:"plants_by_stage"`
	Total        int            `json:"total"`
}

// SeedSearchHit is one Elasticsearch match in the seed search results.
type SeedSearchHit struct {
	EchoID      string   `json:"echo_id"`
	Content     string   `json:"content"`
	SeedType    string   `json:"seed_type"`
	MoodScore   float64  `json:"mood_score"`
	EmotionTags []string `json:"emotion_tags"`
	Score       float64  `json:"score"`
}

// EchoService plants echoes and serves the garden.
type EchoService struct {
	echoes    repository.EchoRepository
	analyzer  *EchoAnalyzer
	publisher *helpers.RabbitPublisher
	gcs       *storage.Client
	gcsBucket string
	es        *elasticsearch.Client
	esIndex   string
	log       *logrus.Logger
}

func NewEchoService(
	echoes repository.EchoRepository,
	analyzer *EchoAnalyzer,
	publisher *helpers.RabbitPublisher,
	gcs *storage.Client,
	gcsBucket string,
	es *elasticsearch.Client,
	esIndex string,
	log *logrus.Logger,
) *EchoService {
	return &EchoService{
		echoes:    echoes,
		analyzer:  analyzer,
		publisher: publisher,
		gcs:       gcs,
		gcsBucket: gcsBucket,
		es:        es,
		esIndex:   esIndex,
		log:       log,
	}
}

// Plant stores a new echo and hands it to the analysis pipeline. With a queue
// configured the echo returns immediately with analysis_pending true;
// otherwise analysis runs inline and the reply is in the response.
func (s *EchoService) Plant(ctx context.Context, userID, content, seedType string) (*entity.Echo, error) {
	if seedType == "" {
		seedType = "random"
	}
	echo := &entity.Echo{
		ID:              uuid.NewString(),
		UserID:          userID,
		Content:         content,
		SeedType:        seedType,
		EmotionTags:     []string{},
		GrowthStage:     entity.StageSeed,
		AnalysisPending: true,
	}
	if err := s.echoes.Create(ctx, echo); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		job := AnalysisJob{EchoID: echo.ID, UserID: userID}
		if err := s.publisher.PublishJSON(ctx, job); err == nil {
			return echo, nil
		} else {
			s.log.WithError(err).Warn("queue publish failed, analyzing inline")
		}
	}
	return s.analyzer.Analyze(ctx, echo.ID)
}

// PlantVoice uploads the audio to object storage and plants the transcript.
func (s *EchoService) PlantVoice(ctx context.Context, userID, transcript, seedType, contentType string, audio io.Reader) (*entity.Echo, error) {
	echo, err := s.Plant(ctx, userID, transcript, seedType)
	if err != nil {
		return nil, err
	}
	if s.gcs == nil || s.gcsBucket == "" {
		return echo, nil
	}

	object := path.Join("voice-echoes", userID, echo.ID+audioExt(contentType))
	url, err := helpers.UploadObject(ctx, s.gcs, s.gcsBucket, object, contentType, audio)
	if err != nil {
		// The text echo already exists; surface the upload failure only in logs.
		s.log.WithError(err).WithField("echo_id", echo.ID).Warn("voice upload failed")
		return echo, nil
	}
	echo.AudioURL = url
	return echo, nil
}

func audioExt(contentType string) string {
	switch contentType {
	case "audio/mpeg":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	default:
		return ".webm"
	}
}

// Garden returns the recent echoes plus plant counts per stage.
func (s *EchoService) Garden(ctx context.Context, userID string, limit int) (*GardenState, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	echoes, err := s.echoes.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	counts, err := s.echoes.CountByStage(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return &GardenState{Echoes: echoes, PlantsByType: counts, Total: total}, nil
}

// Get returns one echo, scoped to its owner.
func (s *EchoService) Get(ctx context.Context, userID, echoID string) (*entity.Echo, error) {
	echo, err := s.echoes.GetByID(ctx, echoID)
	if err != nil {
		return nil, err
	}
	if echo.UserID != userID {
		return nil, ErrForbidden
	}
	return echo, nil
}

// SearchSeeds runs a full text query over the gardener's indexed echoes.
func (s *EchoService) SearchSeeds(ctx context.Context, userID, query string, size int) ([]SeedSearchHit, error) {
	if s.es == nil {
		return []SeedSearchHit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	q := map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"content^2", "emotion_tags", "seed_type"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
	}
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.esIndex),
		s.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("seed search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("seed search: status %d", res.StatusCode)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string  `json:"_id"`
				Score  float64 `json:"_score"`
				Source struct {
					Content     string   `json:"content"`
					SeedType    string   `json:"seed_type"`
					MoodScore   float64  `json:"mood_score"`
					EmotionTags []string `json:"emotion_tags"`
					CreatedAt   any      `json:"created_at"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]SeedSearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, SeedSearchHit{
			EchoID:      h.ID,
			Content:     h.Source.Content,
			SeedType:    h.Source.SeedType,
			MoodScore:   h.Source.MoodScore,
			EmotionTags: h.Source.EmotionTags,
			Score:       h.Score,
		})
	}
	return hits, nil
}
