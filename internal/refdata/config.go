package refdata

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/fiscalia/nfe-auditor/internal/extract"
)

// LoadPathTable reads a candidate-path table from a YAML or JSON file,
// letting deployments remap fields for issuer quirks without a rebuild.
func LoadPathTable(path string) (extract.PathTable, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return extract.PathTable{}, fmt.Errorf("read path table: %w", err)
	}

	table := extract.DefaultPathTable()
	if err := v.Unmarshal(&table); err != nil {
		return extract.PathTable{}, fmt.Errorf("decode path table: %w", err)
	}
	return table, nil
}

// decimalDecodeHook lets viper fill decimal.Decimal fields from the
// string or numeric literals found in config files.
func decimalDecodeHook() mapstructure.DecodeHookFunc {
	decimalType := reflect.TypeOf(decimal.Decimal{})
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != decimalType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return decimal.NewFromString(v)
		case float64:
			return decimal.NewFromFloat(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		default:
			return data, nil
		}
	}
}
