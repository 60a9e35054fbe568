package utils

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/vitwit/splitpay/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	if err := validate.RegisterValidation("solana_address", validateSolanaAddressTag); err != nil {
		panic(err)
	}
}

// ParseDistributionInfo decodes and validates the body of a distribution
// lookup. Unknown fields are tolerated; missing or malformed required fields
// are not.
func ParseDistributionInfo(data []byte) (*types.DistributionConfig, error) {
	var info types.DistributionInfo

	if err := json.Unmarshal(data, &info); err != nil {
		return nil, types.NewError(types.ErrDistributionLookup, "failed to parse distribution info", err)
	}

	// Validate using struct tags
	if err := validate.Struct(&info); err != nil {
		return nil, types.NewError(types.ErrDistributionLookup, "distribution info validation failed", err)
	}

	return DistributionConfigFromInfo(&info)
}

// DistributionConfigFromInfo converts a validated wire payload into the typed
// configuration used by the splitter and the address deriver.
func DistributionConfigFromInfo(info *types.DistributionInfo) (*types.DistributionConfig, error) {
	if info.TaxPercentage == nil || info.ReturnShare == nil {
		return nil, types.Errorf(types.ErrDistributionLookup, "distribution info is missing percentages")
	}
	if err := ValidateBasisPoints("tax_percentage", *info.TaxPercentage); err != nil {
		return nil, types.NewError(types.ErrDistributionLookup, "invalid distribution info", err)
	}
	if err := ValidateBasisPoints("return_share", *info.ReturnShare); err != nil {
		return nil, types.NewError(types.ErrDistributionLookup, "invalid distribution info", err)
	}

	returnAddress, err := ParseAddress(info.ReturnAddress)
	if err != nil {
		return nil, types.NewError(types.ErrDistributionLookup, "invalid return_address", err)
	}

	taxReceiver, err := ParseAddress(info.TaxReceiver)
	if err != nil {
		return nil, types.NewError(types.ErrDistributionLookup, "invalid tax_receiver", err)
	}

	cfg := &types.DistributionConfig{
		TaxPercentageBps: uint16(*info.TaxPercentage),
		ReturnShareBps:   uint16(*info.ReturnShare),
		ReturnAddress:    returnAddress,
		TaxReceiver:      taxReceiver,
	}

	if info.RewardsContract != "" {
		rewards, err := ParseAddress(info.RewardsContract)
		if err != nil {
			return nil, types.NewError(types.ErrDistributionLookup, "invalid rewards_contract", err)
		}
		cfg.RewardsContract = &rewards
	}

	return cfg, nil
}

// ParseConfig parses Config from JSON and fills defaults
func ParseConfig(data []byte) (*types.Config, error) {
	var config types.Config

	if err := json.Unmarshal(data, &config); err != nil {
		return nil, types.NewError(types.ErrConfigError, "failed to parse config", err)
	}

	config.ApplyDefaults()

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ValidateConfig validates a Config using its struct tags
func ValidateConfig(config *types.Config) error {
	if config == nil {
		return types.Errorf(types.ErrConfigError, "config is nil")
	}

	if err := validate.Struct(config); err != nil {
		return types.NewError(types.ErrConfigError, "validation failed", err)
	}

	if !config.Network.IsSolana() {
		return types.Errorf(types.ErrUnsupportedNetwork, "unsupported network: %s", config.Network)
	}

	return nil
}

// Custom validator functions
func validateSolanaAddressTag(fl validator.FieldLevel) bool {
	return IsValidAddress(fl.Field().String())
}
