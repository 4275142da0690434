package config

import (
	"log"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/shopspring/decimal"

	"github.com/vaultkeeper/multivault/pkg/core"
)

type Config struct {
	API struct {
		Port int `env:"PORT" envDefault:"8081"`
	}
	App struct {
		LogLevel    string      `env:"LOG_LEVEL" envDefault:"INFO"`
		MetricsPort int         `env:"METRICS_PORT" envDefault:"9010"`
		Approvers   addressList `env:"APPROVERS,required"`
		Creator     string      `env:"CREATOR"`
		// PoolBalance is the initial pooled balance of the in-memory book,
		// ignored when SETTLEMENT_URL points to a remote settlement endpoint.
		PoolBalance   decimal.Decimal `env:"POOL_BALANCE" envDefault:"0"`
		SettlementURL string          `env:"SETTLEMENT_URL"`
		// ProposalRateLimit caps proposals per client per minute; 0 disables it.
		ProposalRateLimit int `env:"PROPOSAL_RATE_LIMIT" envDefault:"60"`
	}
}

type addressList []core.Address

func Load() Config {
	var c Config
	if err := env.ParseWithFuncs(&c, map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(addressList{}): func(v string) (interface{}, error) {
			var addrs addressList
			for _, s := range strings.Split(v, ",") {
				a, err := core.ParseAddress(strings.TrimSpace(s))
				if err != nil {
					return nil, err
				}
				addrs = append(addrs, a)
			}
			return addrs, nil
		},
		reflect.TypeOf(decimal.Decimal{}): func(v string) (interface{}, error) {
			return decimal.NewFromString(v)
		}}); err != nil {
		log.Panicf("[‼️  Config parsing failed] %+v\n", err)
	}

	return c
}
