package payments

import "github.com/HanaSeol/CardMoa/app/models"

// Fixed price table in KRW. An activation is only accepted when the verified
// order amount matches the claimed payment type exactly; this blocks
// redeeming a cheap order under an expensive type.
var priceTable = map[string]int{
	models.PaymentTypePremium:      29000,
	models.PaymentTypeCreditSingle: 4900,
	models.PaymentTypeCreditBundle: 19000,
}

var rewardTable = map[string]Reward{
	models.PaymentTypePremium:      {Credits: 0, Premium: true},
	models.PaymentTypeCreditSingle: {Credits: 1},
	models.PaymentTypeCreditBundle: {Credits: 5},
}

// IsValidAmount reports whether amount is the listed price for paymentType.
// Pure lookup, no I/O.
func IsValidAmount(paymentType string, amount int) bool {
	price, ok := priceTable[paymentType]
	return ok && price == amount
}

// RewardFor returns the reward for a payment type, or ok=false for types not
// in the table.
func RewardFor(paymentType string) (Reward, bool) {
	r, ok := rewardTable[paymentType]
	return r, ok
}
