package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// Stage artifact names, in pipeline order.
const (
	Comments  = "1_comments.json"
	Mentions  = "2_mentions.json"
	Stats     = "3_stats.json"
	ProsCons  = "4_pros_cons.json"
	Final     = "5_final_analysis.json"
)

// Names lists every artifact in the order the pipeline writes them.
var Names = []string{Comments, Mentions, Stats, ProsCons, Final}

// codec writes two-space indented UTF-8 as is and leaves <, > and &
// unescaped so comment text stays readable.
var codec = jsoniter.Config{
	EscapeHTML:    false,
	SortMapKeys:   true,
	IndentionStep: 2,
}.Froze()

// Ordered is a JSON object whose members are written in Keys order rather
// than sorted. Keys missing from Values are skipped.
type Ordered[V any] struct {
	Keys   []string
	Values map[string]V
}

type member struct {
	key   string
	value any
}

type object interface {
	members() []member
}

func (o Ordered[V]) members() []member {
	out := make([]member, 0, len(o.Keys))
	for _, k := range o.Keys {
		if v, ok := o.Values[k]; ok {
			out = append(out, member{key: k, value: v})
		}
	}
	return out
}

// Store writes stage artifacts into one directory.
type Store struct {
	dir string
	log *zap.Logger
}

// New returns a Store rooted at dir. The directory is created on first save.
func New(dir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{dir: dir, log: log}
}

// Dir returns the artifact directory.
func (s *Store) Dir() string { return s.dir }

// Path returns where name is written.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Save encodes v as indented JSON and replaces the artifact called name.
func (s *Store) Save(name string, v any) error {
	s.log.Info("Saving " + name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating checkpoint directory: %w", err)
	}
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	// Write to a sibling temp file first so a crash never leaves a
	// half-written artifact behind.
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Load decodes the artifact called name into v.
func (s *Store) Load(name string, v any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return err
	}
	return codec.Unmarshal(data, v)
}

// Encode returns v as two-space indented JSON with a trailing newline.
// Map keys are sorted unless v is an Ordered.
func Encode(v any) ([]byte, error) {
	if o, ok := v.(object); ok {
		return encodeObject(o.members())
	}
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func encodeObject(members []member) ([]byte, error) {
	if len(members) == 0 {
		return []byte("{}\n"), nil
	}
	stream := codec.BorrowStream(nil)
	defer codec.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, m := range members {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(m.key)
		stream.WriteVal(m.value)
	}
	stream.WriteObjectEnd()
	if stream.Error != nil {
		return nil, stream.Error
	}
	out := make([]byte, 0, len(stream.Buffer())+1)
	out = append(out, stream.Buffer()...)
	return append(out, '\n'), nil
}
