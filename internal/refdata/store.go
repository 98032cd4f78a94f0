package refdata

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// supportedMajorVersion is the reference file schema major version this
// build understands.
const supportedMajorVersion = 1

//go:embed data/reference.yaml
var defaultReference []byte

// document mirrors the YAML layout of a reference file.
type document struct {
	Version     string         `yaml:"version"`
	Calibration docCalibration `yaml:"calibration"`
	Categories  []docCategory  `yaml:"categories"`
	Questions   []docQuestion  `yaml:"questions"`
}

type docCalibration struct {
	LowerBound  float64 `yaml:"lower_bound"`
	UpperBound  float64 `yaml:"upper_bound"`
	DatasetMean float64 `yaml:"dataset_mean"`
	DatasetStd  float64 `yaml:"dataset_std"`
	Model       struct {
		R2   float64 `yaml:"r2"`
		MAE  float64 `yaml:"mae"`
		RMSE float64 `yaml:"rmse"`
	} `yaml:"model"`
}

type docCategory struct {
	Name          string    `yaml:"name"`
	Baseline      float64   `yaml:"baseline"`
	DefaultWeight float64   `yaml:"default_weight"`
	Offset        float64   `yaml:"offset"`
	Tips          []string  `yaml:"tips"`
	Products      []Product `yaml:"products"`
}

type docQuestion struct {
	ID       int     `yaml:"id"`
	Topic    string  `yaml:"topic"`
	Category string  `yaml:"category"`
	Kind     string  `yaml:"kind"`
	Text     string  `yaml:"text"`
	Fallback float64 `yaml:"fallback"`
	Options  []struct {
		Label string  `yaml:"label"`
		CO2   float64 `yaml:"co2"`
	} `yaml:"options"`
	Slider *struct {
		Min         float64 `yaml:"min"`
		Max         float64 `yaml:"max"`
		Step        float64 `yaml:"step"`
		Unit        string  `yaml:"unit"`
		Coefficient float64 `yaml:"coefficient"`
	} `yaml:"slider"`
}

// Store is the immutable, process-wide reference dataset.
type Store struct {
	version     *semver.Version
	calibration Calibration
	categories  map[Category]CategoryInfo
	questions   []Question
	byTopic     map[string]int
	byID        map[int]int
}

// LoadDefault parses and validates the reference dataset compiled into the
// binary.
func LoadDefault() (*Store, error) {
	return load(defaultReference, "embedded reference data")
}

// Load reads, parses and validates a reference dataset from path. An empty
// path selects the embedded dataset.
func Load(path string) (*Store, error) {
	if path == "" {
		return LoadDefault()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference data %s: %w", path, err)
	}
	return load(data, path)
}

func load(data []byte, source string) (*Store, error) {
	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}
	if err = store.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", source, err)
	}
	return store, nil
}

// Parse decodes a reference dataset without semantic validation beyond the
// schema version, category names and question kinds. Callers that need a
// usable store should call Validate, or use Load.
func Parse(data []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}

	version, err := semver.NewVersion(doc.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, doc.Version, err)
	}
	if version.Major() != supportedMajorVersion {
		return nil, fmt.Errorf("%w: %s (want %d.x)", ErrUnsupportedVersion, version, supportedMajorVersion)
	}

	s := &Store{
		version: version,
		calibration: Calibration{
			LowerBound:  doc.Calibration.LowerBound,
			UpperBound:  doc.Calibration.UpperBound,
			DatasetMean: doc.Calibration.DatasetMean,
			DatasetStd:  doc.Calibration.DatasetStd,
			Model: ModelAccuracy{
				R2:   doc.Calibration.Model.R2,
				MAE:  doc.Calibration.Model.MAE,
				RMSE: doc.Calibration.Model.RMSE,
			},
		},
		categories: make(map[Category]CategoryInfo, NumCategories),
		byTopic:    make(map[string]int, len(doc.Questions)),
		byID:       make(map[int]int, len(doc.Questions)),
	}

	for _, dc := range doc.Categories {
		cat, catErr := ParseCategory(dc.Name)
		if catErr != nil {
			return nil, catErr
		}
		s.categories[cat] = CategoryInfo{
			Category:      cat,
			Baseline:      dc.Baseline,
			DefaultWeight: dc.DefaultWeight,
			Offset:        dc.Offset,
			Tips:          dc.Tips,
			Products:      dc.Products,
		}
	}

	for _, dq := range doc.Questions {
		q, qErr := dq.toQuestion()
		if qErr != nil {
			return nil, qErr
		}
		if _, dup := s.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateQuestion, q.ID)
		}
		if _, dup := s.byTopic[q.Topic]; dup {
			return nil, fmt.Errorf("%w: topic %q", ErrDuplicateQuestion, q.Topic)
		}
		s.byID[q.ID] = len(s.questions)
		s.byTopic[q.Topic] = len(s.questions)
		s.questions = append(s.questions, q)
	}

	return s, nil
}

func (dq docQuestion) toQuestion() (Question, error) {
	cat, err := ParseCategory(dq.Category)
	if err != nil {
		return Question{}, fmt.Errorf("question %d: %w", dq.ID, err)
	}
	kind, err := ParseKind(dq.Kind)
	if err != nil {
		return Question{}, fmt.Errorf("question %d: %w", dq.ID, err)
	}

	q := Question{
		ID:       dq.ID,
		Topic:    NormalizeTopic(dq.Topic),
		Category: cat,
		Kind:     kind,
		Text:     dq.Text,
		Fallback: dq.Fallback,
	}
	for _, o := range dq.Options {
		q.Options = append(q.Options, Option{Label: o.Label, CO2: o.CO2})
	}
	if dq.Slider != nil {
		q.Slider = &Slider{
			Min:         dq.Slider.Min,
			Max:         dq.Slider.Max,
			Step:        dq.Slider.Step,
			Unit:        dq.Slider.Unit,
			Coefficient: dq.Slider.Coefficient,
		}
	}
	return q, nil
}

// Version returns the reference dataset schema version.
func (s *Store) Version() string {
	return s.version.String()
}

// Calibration returns the clamp bounds and dataset statistics.
func (s *Store) Calibration() Calibration {
	return s.calibration
}

// Category returns a copy of the reference values for c.
func (s *Store) Category(c Category) (CategoryInfo, bool) {
	ci, ok := s.categories[c]
	if !ok {
		return CategoryInfo{}, false
	}
	return ci.clone(), true
}

// Questions returns a copy of every question in file order.
func (s *Store) Questions() []Question {
	out := make([]Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.clone()
	}
	return out
}

// QuestionsIn returns the questions of a single category in file order.
func (s *Store) QuestionsIn(c Category) []Question {
	var out []Question
	for _, q := range s.questions {
		if q.Category == c {
			out = append(out, q.clone())
		}
	}
	return out
}

// Shuffled returns every question in a random order drawn from r.
func (s *Store) Shuffled(r *rand.Rand) []Question {
	out := s.Questions()
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// QuestionByTopic looks a question up by its topic identifier. The topic is
// normalized before lookup.
func (s *Store) QuestionByTopic(topic string) (Question, bool) {
	idx, ok := s.byTopic[NormalizeTopic(topic)]
	if !ok {
		return Question{}, false
	}
	return s.questions[idx].clone(), true
}

// QuestionByID looks a question up by its numeric id.
func (s *Store) QuestionByID(id int) (Question, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return Question{}, false
	}
	return s.questions[idx].clone(), true
}
