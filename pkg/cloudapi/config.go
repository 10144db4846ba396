package cloudapi

import "time"

type Config struct {
	BaseURL       string        `mapstructure:"base_url" validate:"required,url"`
	APIVersion    string        `mapstructure:"api_version" validate:"required"`
	AccessToken   string        `mapstructure:"access_token"`
	PhoneNumberID string        `mapstructure:"phone_number_id"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
}
