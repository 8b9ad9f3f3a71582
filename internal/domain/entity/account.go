package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Chaves reservadas no formato JSON plano dos registros mensais.
const (
	KeyDate             = "date"
	KeyTotalCost        = "totalCost"
	KeyServiceBreakdown = "serviceBreakdown"
)

// MonthRecord representa os custos de um mês para uma conta.
// No JSON os serviços ficam no mesmo nível de date/totalCost.
type MonthRecord struct {
	Date      string
	TotalCost float64
	Services  *CostMap
}

func (r MonthRecord) GetDate() string       { return r.Date }
func (r MonthRecord) GetTotalCost() float64 { return r.TotalCost }

// ServiceCost returns the cost recorded for service, or 0 when the month lacks it.
func (r MonthRecord) ServiceCost(service string) float64 {
	return r.Services.Value(service)
}

func (r MonthRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, KeyDate, r.Date); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeField(&buf, KeyTotalCost, finite(r.TotalCost)); err != nil {
		return nil, err
	}
	if err := r.Services.writeFields(&buf, true, true); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *MonthRecord) UnmarshalJSON(data []byte) error {
	*r = MonthRecord{Services: NewCostMap()}
	return decodeObject(data, func(key string, dec *json.Decoder) error {
		switch key {
		case KeyDate:
			return dec.Decode(&r.Date)
		case KeyTotalCost:
			return dec.Decode(&r.TotalCost)
		default:
			return decodeNumericField(dec, key, r.Services)
		}
	})
}

// decodeNumericField adiciona o campo ao mapa quando numérico e ignora os demais.
func decodeNumericField(dec *json.Decoder, key string, into *CostMap) error {
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	if v, ok := raw.(float64); ok {
		into.Set(unescapeFlatKey(key), v)
	}
	return nil
}

// Summary holds the figures of the CSV's total row.
type Summary struct {
	Services  *CostMap
	TotalCost float64
}

func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := s.Services.writeFields(&buf, false, true); err != nil {
		return nil, err
	}
	if s.Services.Len() > 0 {
		buf.WriteByte(',')
	}
	if err := writeField(&buf, KeyTotalCost, finite(s.TotalCost)); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Summary) UnmarshalJSON(data []byte) error {
	*s = Summary{Services: NewCostMap()}
	return decodeObject(data, func(key string, dec *json.Decoder) error {
		if key == KeyTotalCost {
			return dec.Decode(&s.TotalCost)
		}
		return decodeNumericField(dec, key, s.Services)
	})
}

// DataRange describes the months covered by one account.
type DataRange struct {
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	MonthCount int    `json:"monthCount"`
}

// AccountData é o resultado normalizado de um CSV de custos de uma conta.
type AccountData struct {
	AccountName string        `json:"accountName"`
	Services    []string      `json:"services"`
	Summary     Summary       `json:"summary"`
	MonthlyData []MonthRecord `json:"monthlyData"`
	TotalCost   float64       `json:"totalCost"`
	DataRange   DataRange     `json:"dataRange"`
}

// MonthByDate returns the account's record for date, if any.
func (a AccountData) MonthByDate(date string) (MonthRecord, bool) {
	for _, m := range a.MonthlyData {
		if m.Date == date {
			return m, true
		}
	}
	return MonthRecord{}, false
}

// LatestMonth returns the last entry of MonthlyData.
func (a AccountData) LatestMonth() (MonthRecord, bool) {
	if len(a.MonthlyData) == 0 {
		return MonthRecord{}, false
	}
	return a.MonthlyData[len(a.MonthlyData)-1], true
}

// RegisteredAccount representa uma conta cadastrada a partir de um arquivo.
type RegisteredAccount struct {
	Name     string      `json:"name"`
	FileName string      `json:"fileName"`
	Data     AccountData `json:"data"`
	AddedAt  time.Time   `json:"addedAt"`
}
