package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/timedeposit/timedeposit/internal/model"
)

const (
	FieldTransactionAmount      = "amount"
	FieldTransactionType        = "type"
	FieldTransactionDescription = "description"
)

type TransactionInput struct {
	Amount      int64
	Type        string
	Description string
}

// ValidateTransaction parses a deposit form. An empty type means a manual
// deposit.
func ValidateTransaction(amount, txType, description string) (TransactionInput, FieldErrors) {
	errs := FieldErrors{}
	in := TransactionInput{
		Type:        strings.TrimSpace(txType),
		Description: strings.TrimSpace(description),
	}

	if in.Type == "" {
		in.Type = model.TransactionTypeManual
	}
	if !model.ValidTransactionType(in.Type) {
		errs[FieldTransactionType] = "Unknown deposit type."
	}

	v, ok := ParseAmount(amount)
	if !ok || v <= 0 {
		errs[FieldTransactionAmount] = "Deposit amount must be a positive number."
	} else if v > MaxAmount {
		errs[FieldTransactionAmount] = amountTooLarge
	} else {
		in.Amount = v
	}

	if utf8.RuneCountInString(in.Description) > goalDescriptionMaxLength {
		errs[FieldTransactionDescription] = "Description is too long (max 500 characters)."
	}

	return in, errs
}
