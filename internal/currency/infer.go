// Package currency maps free-text merchant addresses to ISO 4217 codes.
package currency

import "strings"

// mapping associates a currency code with address keywords (country names,
// major cities). Slice order is the tie-break when keywords from different
// currencies both match: first listed wins.
type mapping struct {
	code     string
	keywords []string
}

var mappings = []mapping{
	{"PHP", []string{"philippines", "manila", "cebu", "davao", "quezon", "makati", "taguig", "pasig", "pasay", "caloocan", "muntinlupa", "paranaque", "marikina", "cavite", "laguna", "bulacan", "pampanga", "batangas", "rizal"}},
	{"USD", []string{"united states", "usa", "u.s.a", "u.s.", "new york", "los angeles", "chicago", "houston", "phoenix", "california", "texas", "florida", "illinois"}},
	{"JPY", []string{"japan", "tokyo", "osaka", "kyoto", "yokohama", "nagoya", "sapporo", "fukuoka"}},
	{"GBP", []string{"united kingdom", "england", "london", "manchester", "birmingham", "scotland", "wales", "uk"}},
	{"EUR", []string{"germany", "france", "italy", "spain", "netherlands", "belgium", "austria", "ireland", "portugal", "greece", "finland", "berlin", "paris", "rome", "madrid", "amsterdam", "vienna"}},
	{"KRW", []string{"south korea", "korea", "seoul", "busan", "incheon"}},
	{"SGD", []string{"singapore"}},
	{"THB", []string{"thailand", "bangkok", "chiang mai", "phuket", "pattaya"}},
	{"AUD", []string{"australia", "sydney", "melbourne", "brisbane", "perth"}},
	{"CAD", []string{"canada", "toronto", "vancouver", "montreal", "ottawa", "calgary"}},
	{"CNY", []string{"china", "beijing", "shanghai", "shenzhen", "guangzhou"}},
	{"INR", []string{"india", "mumbai", "delhi", "bangalore", "hyderabad", "chennai"}},
	{"IDR", []string{"indonesia", "jakarta", "bali", "surabaya", "bandung"}},
	{"MYR", []string{"malaysia", "kuala lumpur", "penang", "johor"}},
	{"VND", []string{"vietnam", "ho chi minh", "hanoi", "da nang"}},
	{"TWD", []string{"taiwan", "taipei", "kaohsiung"}},
	{"HKD", []string{"hong kong"}},
	{"NZD", []string{"new zealand", "auckland", "wellington"}},
	{"CHF", []string{"switzerland", "zurich", "geneva", "bern"}},
	{"BRL", []string{"brazil", "são paulo", "sao paulo", "rio de janeiro"}},
	{"MXN", []string{"mexico", "mexico city", "guadalajara", "monterrey"}},
	{"ZAR", []string{"south africa", "johannesburg", "cape town", "durban"}},
	{"RUB", []string{"russia", "moscow", "saint petersburg"}},
}

// Infer returns the ISO 4217 currency code for a merchant address.
// Matching is a case-insensitive substring scan over the keyword table;
// fallback is the given default code when nothing matches. Infer never
// fails and is safe for concurrent use.
func Infer(address, defaultCode string) string {
	address = strings.ToLower(address)
	for _, m := range mappings {
		for _, kw := range m.keywords {
			if strings.Contains(address, kw) {
				return m.code
			}
		}
	}
	return defaultCode
}
