package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry 為 Breakdown 內的一筆鍵值。
type Entry struct {
	Key   string
	Value float64
}

// Breakdown 是保留鍵順序的「名稱 → 數值」表。
// JSON 物件解碼時沿用文件中的鍵順序，讓依序迭代有明確定義。
type Breakdown struct {
	entries []Entry
	index   map[string]int
}

// NewBreakdown 依傳入順序建立 Breakdown；重複的鍵以後者覆蓋值、保留首次位置。
func NewBreakdown(entries ...Entry) Breakdown {
	var b Breakdown
	for _, e := range entries {
		b.Set(e.Key, e.Value)
	}
	return b
}

// Set 寫入或覆蓋一個鍵。
func (b *Breakdown) Set(key string, v float64) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[key]; ok {
		b.entries[i].Value = v
		return
	}
	b.index[key] = len(b.entries)
	b.entries = append(b.entries, Entry{Key: key, Value: v})
}

// Get 以完全相同的鍵查詢。
func (b Breakdown) Get(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.entries[i].Value, true
}

// Len 回傳鍵數。
func (b Breakdown) Len() int { return len(b.entries) }

// Keys 依插入順序回傳所有鍵。
func (b Breakdown) Keys() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Key
	}
	return out
}

// Entries 依插入順序回傳副本。
func (b Breakdown) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// MarshalJSON 依插入順序輸出 JSON 物件。
func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(Finite(e.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 解碼 JSON 物件並保留鍵順序；null 視為空表，非數值的值視為 0。
func (b *Breakdown) UnmarshalJSON(data []byte) error {
	*b = Breakdown{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("breakdown: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("breakdown: unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("breakdown %q: %w", key, err)
		}
		var num json.Number
		v := 0.0
		if err := json.Unmarshal(raw, &num); err == nil {
			if f, err := num.Float64(); err == nil {
				v = f
			}
		}
		b.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
