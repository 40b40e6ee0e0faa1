package storage

import "dime/internal/core"

// seedCurrencies mirrors the reference rows installed by the 0002 seed
// migrations. The memory store uses it directly so all backends expose the
// same currency set.
var seedCurrencies = []core.Currency{
	{ID: 1, Name: "US Dollar", Code: "USD", Symbol: "$", NumericCode: 840, MinorUnit: 2},
	{ID: 2, Name: "Euro", Code: "EUR", Symbol: "€", NumericCode: 978, MinorUnit: 2},
	{ID: 3, Name: "Pound Sterling", Code: "GBP", Symbol: "£", NumericCode: 826, MinorUnit: 2},
	{ID: 4, Name: "Yen", Code: "JPY", Symbol: "¥", NumericCode: 392, MinorUnit: 0},
	{ID: 5, Name: "Yuan Renminbi", Code: "CNY", Symbol: "¥", NumericCode: 156, MinorUnit: 2},
	{ID: 6, Name: "Swiss Franc", Code: "CHF", Symbol: "CHF", NumericCode: 756, MinorUnit: 2},
	{ID: 7, Name: "Canadian Dollar", Code: "CAD", Symbol: "$", NumericCode: 124, MinorUnit: 2},
	{ID: 8, Name: "Australian Dollar", Code: "AUD", Symbol: "$", NumericCode: 36, MinorUnit: 2},
	{ID: 9, Name: "Indian Rupee", Code: "INR", Symbol: "₹", NumericCode: 356, MinorUnit: 2},
	{ID: 10, Name: "Russian Ruble", Code: "RUB", Symbol: "₽", NumericCode: 643, MinorUnit: 2},
	{ID: 11, Name: "Brazilian Real", Code: "BRL", Symbol: "R$", NumericCode: 986, MinorUnit: 2},
	{ID: 12, Name: "Won", Code: "KRW", Symbol: "₩", NumericCode: 410, MinorUnit: 0},
	{ID: 13, Name: "Mexican Peso", Code: "MXN", Symbol: "$", NumericCode: 484, MinorUnit: 2},
	{ID: 14, Name: "Turkish Lira", Code: "TRY", Symbol: "₺", NumericCode: 949, MinorUnit: 2},
	{ID: 15, Name: "Zloty", Code: "PLN", Symbol: "zł", NumericCode: 985, MinorUnit: 2},
	{ID: 16, Name: "Swedish Krona", Code: "SEK", Symbol: "kr", NumericCode: 752, MinorUnit: 2},
	{ID: 17, Name: "Norwegian Krone", Code: "NOK", Symbol: "kr", NumericCode: 578, MinorUnit: 2},
	{ID: 18, Name: "Czech Koruna", Code: "CZK", Symbol: "Kč", NumericCode: 203, MinorUnit: 2},
	{ID: 19, Name: "Hryvnia", Code: "UAH", Symbol: "₴", NumericCode: 980, MinorUnit: 2},
	{ID: 20, Name: "Dong", Code: "VND", Symbol: "₫", NumericCode: 704, MinorUnit: 0},
}
