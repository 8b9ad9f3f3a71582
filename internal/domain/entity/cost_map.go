package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// CostMap é um mapa ordenado de chave (serviço ou conta) para custo.
// A ordem de inserção é preservada na iteração e na serialização JSON.
type CostMap struct {
	keys   []string
	values map[string]float64
}

// NewCostMap cria um CostMap vazio.
func NewCostMap() *CostMap {
	return &CostMap{values: map[string]float64{}}
}

func (m *CostMap) init() {
	if m.values == nil {
		m.values = map[string]float64{}
	}
}

// Set grava o valor, mantendo a posição original se a chave já existir.
func (m *CostMap) Set(key string, value float64) {
	m.init()
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Add soma value ao valor atual da chave (zero se ausente).
func (m *CostMap) Add(key string, value float64) {
	m.init()
	m.Set(key, m.values[key]+value)
}

// Get returns the value and whether the key exists.
func (m *CostMap) Get(key string) (float64, bool) {
	if m == nil || m.values == nil {
		return 0, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Value returns the value for key, or 0 when absent.
func (m *CostMap) Value(key string) float64 {
	v, _ := m.Get(key)
	return v
}

func (m *CostMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *CostMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *CostMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each itera na ordem de inserção.
func (m *CostMap) Each(fn func(key string, value float64)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Sum returns the sum of all values.
func (m *CostMap) Sum() float64 {
	total := 0.0
	m.Each(func(_ string, v float64) { total += v })
	return total
}

func (m *CostMap) Clone() *CostMap {
	out := NewCostMap()
	m.Each(out.Set)
	return out
}

// Equal compares keys, order and values.
func (m *CostMap) Equal(other *CostMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.Keys() {
		if other.keys[i] != k || other.values[k] != m.values[k] {
			return false
		}
	}
	return true
}

func (m *CostMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := m.writeFields(&buf, false, false); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *CostMap) UnmarshalJSON(data []byte) error {
	*m = CostMap{values: map[string]float64{}}
	return decodeObject(data, func(key string, dec *json.Decoder) error {
		var v float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		m.Set(key, v)
		return nil
	})
}

// writeFields escreve os pares chave/valor sem as chaves externas.
// Com leadingComma, cada par é precedido de vírgula. Com flat, as chaves
// passam por escapeFlatKey para não colidir com os campos do registro.
func (m *CostMap) writeFields(buf *bytes.Buffer, leadingComma, flat bool) error {
	first := !leadingComma
	var err error
	m.Each(func(k string, v float64) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if flat {
			k = escapeFlatKey(k)
		}
		err = writeField(buf, k, finite(v))
	})
	return err
}

// flatKeyEscape prefixa, no JSON plano, chaves iguais a date/totalCost/serviceBreakdown
// e chaves que já começam com o próprio prefixo.
const flatKeyEscape = "~"

func escapeFlatKey(key string) string {
	switch key {
	case KeyDate, KeyTotalCost, KeyServiceBreakdown:
		return flatKeyEscape + key
	}
	if strings.HasPrefix(key, flatKeyEscape) {
		return flatKeyEscape + key
	}
	return key
}

func unescapeFlatKey(key string) string {
	return strings.TrimPrefix(key, flatKeyEscape)
}

func writeField(buf *bytes.Buffer, key string, value any) error {
	kb, err := json.Marshal(key)
	if err != nil {
		return err
	}
	vb, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}

// finite substitui NaN/Inf por zero; encoding/json não aceita esses valores.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// decodeObject percorre um objeto JSON preservando a ordem das chaves.
func decodeObject(data []byte, field func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := field(key, dec); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
