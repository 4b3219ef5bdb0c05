package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Cache     CacheConfigs
	Referral  ReferralConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type AuthConfigs struct {
	TokenSecret   string
	AccessToken   TokenConfigs
	ReferralToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type CacheConfigs struct {
	// ReferralCodeTTL bounds how long a referral code looked up by email may
	// be served without hitting the database.
	ReferralCodeTTL time.Duration
}

type ReferralConfigs struct {
	// PruneEdgesOnRevoke replicates the legacy behavior of deleting all
	// referral edges rooted at a user when that user's code is revoked. When
	// false, revoking only prevents future redemptions.
	PruneEdgesOnRevoke bool
}
