package recommend

import (
	"strings"

	"github.com/anatolykoptev/go_finguide/internal/engine"
)

// Rule routes topics to a curated resource list.
type Rule struct {
	Name      string
	Match     func(topic string) bool // topic is lower-cased
	Resources []engine.Resource
}

func containsAny(keywords ...string) func(string) bool {
	return func(topic string) bool {
		for _, k := range keywords {
			if strings.Contains(topic, k) {
				return true
			}
		}
		return false
	}
}

func containsAll(keywords ...string) func(string) bool {
	return func(topic string) bool {
		for _, k := range keywords {
			if !strings.Contains(topic, k) {
				return false
			}
		}
		return true
	}
}

// rules is evaluated in order; the first match wins.
// "bank account" topics are caught by bank-account before banking, and
// investing can never match because invest covers all its keywords. Both are
// kept so the curated lists stay in the link check.
var rules = []Rule{
	{
		Name:  "pan",
		Match: containsAny("pan"),
		Resources: []engine.Resource{
			{Title: "ClearTax: How to Apply for PAN Card", URL: "https://cleartax.in/s/pan-card"},
			{Title: "Protean (NSDL): Official PAN Portal", URL: "https://www.protean-tinpan.com/services/pan/pan-index.html"},
			{Title: "BankBazaar: PAN Card Application Guide", URL: "https://www.bankbazaar.com/pan-card.html"},
			{Title: "Paisabazaar: PAN Card Guide", URL: "https://www.paisabazaar.com/pan-card/"},
			{Title: "Forbes: How to Apply for PAN Card", URL: "https://www.forbes.com/advisor/in/personal-finance/how-to-apply-for-pan-card-online/"},
		},
	},
	{
		Name:  "aadhaar",
		Match: containsAny("aadhaar"),
		Resources: []engine.Resource{
			{Title: "UIDAI: MyAadhaar Portal", URL: "https://myaadhaar.uidai.gov.in/"},
			{Title: "ClearTax: Link Aadhaar to PAN", URL: "https://cleartax.in/s/how-to-link-aadhaar-card-with-pan-card"},
			{Title: "BankBazaar: Aadhaar Card Guide", URL: "https://www.bankbazaar.com/aadhaar-card.html"},
			{Title: "India Post: Aadhaar Services", URL: "https://www.indiapost.gov.in/Financial/Pages/Content/Aadhaar-Updation-Centres.aspx"},
			{Title: "Paytm: Link Aadhaar Guide", URL: "https://paytm.com/blog/aadhaar-card/link-aadhaar-with-mobile-number/"},
		},
	},
	{
		Name:  "driving",
		Match: containsAny("driving", "license"),
		Resources: []engine.Resource{
			{Title: "Parivahan Sewa: Apply for Learner License", URL: "https://sarathi.parivahan.gov.in/sarathiservice/stateSelection.do"},
			{Title: "BankBazaar: Driving Licence Guide", URL: "https://www.bankbazaar.com/driving-licence.html"},
			{Title: "Acko: Driving License Online", URL: "https://www.acko.com/driving-license/apply-for-driving-licence-online/"},
			{Title: "ClearTax: Traffic Rules", URL: "https://cleartax.in/s/traffic-fines-india"},
			{Title: "Tata AIG: Driving License Renewal", URL: "https://www.tataaig.com/knowledge-center/motor-insurance/how-to-renew-driving-licence-online"},
		},
	},
	{
		Name:  "voter",
		Match: containsAny("voter"),
		Resources: []engine.Resource{
			{Title: "Voters' Service Portal (ECI)", URL: "https://voters.eci.gov.in/"},
			{Title: "ClearTax: How to Apply for Voter ID", URL: "https://cleartax.in/s/how-to-apply-for-voter-id-card"},
			{Title: "BankBazaar: Voter ID Card Guide", URL: "https://www.bankbazaar.com/voter-id.html"},
			{Title: "National Voters Service Portal", URL: "https://www.nvsp.in/"},
			{Title: "Bajaj Finserv: Apply for Voter ID", URL: "https://www.bajajfinservmarkets.in/markets/pocket-insurance/articles/apply-for-voter-id-card-online.html"},
		},
	},
	{
		Name:  "passport",
		Match: containsAny("passport"),
		Resources: []engine.Resource{
			{Title: "Passport Seva: Official Portal", URL: "https://www.passportindia.gov.in/"},
			{Title: "ClearTax: Passport Application Guide", URL: "https://cleartax.in/s/apply-passport-online"},
			{Title: "BankBazaar: How to Apply for Passport", URL: "https://www.bankbazaar.com/passport/how-to-apply-for-passport.html"},
			{Title: "Tata AIG: Passport Renewal Process", URL: "https://www.tataaig.com/knowledge-center/travel-insurance/how-to-renew-passport-in-india"},
			{Title: "Paisabazaar: Passport Fees & Charges", URL: "https://www.paisabazaar.com/passport/fees/"},
		},
	},
	{
		Name:  "bank-account",
		Match: containsAll("bank", "account"),
		Resources: []engine.Resource{
			{Title: "RBI: Banking Ombudsman", URL: "https://rbi.org.in/Scripts/Complaints.aspx"},
			{Title: "BankBazaar: Savings Account", URL: "https://www.bankbazaar.com/savings-account.html"},
			{Title: "Paisabazaar: Zero Balance Accounts", URL: "https://www.paisabazaar.com/savings-account/zero-balance-savings-account/"},
			{Title: "HDFC Bank: Open Savings Account", URL: "https://www.hdfcbank.com/personal/save/accounts/savings-accounts"},
			{Title: "SBI: Savings Account", URL: "https://sbi.co.in/web/personal-banking/accounts/saving-account"},
		},
	},
	{
		Name:  "tax",
		Match: containsAny("tax"),
		Resources: []engine.Resource{
			{Title: "Income Tax e-Filing Portal", URL: "https://www.incometax.gov.in/iec/foportal/"},
			{Title: "ClearTax: File ITR Online", URL: "https://cleartax.in/"},
			{Title: "Groww: ITR Filing Guide", URL: "https://groww.in/blog/how-to-file-itr-online"},
			{Title: "Economic Times: Income Tax News", URL: "https://economictimes.indiatimes.com/wealth/tax"},
			{Title: "BankBazaar: Tax Saving Investments", URL: "https://www.bankbazaar.com/tax/80c-deductions.html"},
		},
	},
	{
		Name:  "credit",
		Match: containsAny("credit", "loan"),
		Resources: []engine.Resource{
			{Title: "CIBIL: Get Free CIBIL Score", URL: "https://www.cibil.com/"},
			{Title: "BankBazaar: Credit Score Check", URL: "https://www.bankbazaar.com/cibil/cibil-score.html"},
			{Title: "Paisabazaar: Free Credit Score", URL: "https://www.paisabazaar.com/cibil-credit-report/"},
			{Title: "Bajaj Finserv: Personal Loans", URL: "https://www.bajajfinserv.in/personal-loan"},
			{Title: "HDFC Bank: Loan Interest Rates", URL: "https://www.hdfcbank.com/personal/borrow/popular-loans/personal-loan"},
		},
	},
	{
		Name:  "invest",
		Match: containsAny("invest", "mutual", "stock"),
		Resources: []engine.Resource{
			{Title: "Zerodha Varsity: Stock Market Education", URL: "https://zerodha.com/varsity/"},
			{Title: "Groww: Mutual Funds", URL: "https://groww.in/mutual-funds"},
			{Title: "ClearTax: Investment Guide", URL: "https://cleartax.in/s/investment-plans"},
			{Title: "MoneyControl: Markets", URL: "https://www.moneycontrol.com/"},
			{Title: "AMFI: Mutual Funds Sahi Hai", URL: "https://www.amfiindia.com/"},
		},
	},
	{
		Name:  "budget",
		Match: containsAny("budget"),
		Resources: []engine.Resource{
			{Title: "ClearTax: Budgeting Tips", URL: "https://cleartax.in/s/budgeting-tips"},
			{Title: "BankBazaar: Savings Schemes", URL: "https://www.bankbazaar.com/saving-schemes.html"},
			{Title: "ET Money: Personal Finance", URL: "https://www.etmoney.com/learn/personal-finance/"},
			{Title: "Groww: Financial Planning", URL: "https://groww.in/blog/financial-planning-for-beginners"},
			{Title: "GoodReturns: Personal Finance", URL: "https://www.goodreturns.in/personal-finance/"},
		},
	},
	{
		Name:  "government",
		Match: containsAny("government", "official guides"),
		Resources: []engine.Resource{
			{Title: "UIDAI: Aadhaar Services", URL: "https://myaadhaar.uidai.gov.in/"},
			{Title: "Protean (NSDL): PAN Card Portal", URL: "https://www.protean-tinpan.com/"},
			{Title: "Passport Seva official Portal", URL: "https://www.passportindia.gov.in/"},
			{Title: "Parivahan: Driving License Port", URL: "https://sarathi.parivahan.gov.in/"},
			{Title: "Voters' Service Portal (ECI)", URL: "https://voters.eci.gov.in/"},
		},
	},
	{
		Name:  "banking",
		Match: containsAny("banking", "bank account"),
		Resources: []engine.Resource{
			{Title: "RBI: Banking Ombudsman", URL: "https://rbi.org.in/Scripts/Complaints.aspx"},
			{Title: "HDFC Bank Savings Account", URL: "https://www.hdfcbank.com/personal/save/accounts/savings-accounts"},
			{Title: "SBI Savings Account Guide", URL: "https://sbi.co.in/web/personal-banking/accounts/saving-account"},
			{Title: "ICICI Bank Accounts", URL: "https://www.icicibank.com/personal-banking/accounts/savings-account"},
			{Title: "BankBazaar: Best Savings Accounts", URL: "https://www.bankbazaar.com/savings-account.html"},
		},
	},
	{
		Name:  "investing",
		Match: containsAny("invest", "mutual"),
		Resources: []engine.Resource{
			{Title: "Zerodha Varsity: Stock Market 101", URL: "https://zerodha.com/varsity/"},
			{Title: "Groww: Mutual Funds Guide", URL: "https://groww.in/mutual-funds"},
			{Title: "AMFI: Mutual Funds Sahi Hai", URL: "https://www.amfiindia.com/"},
			{Title: "MoneyControl: Market News", URL: "https://www.moneycontrol.com/"},
			{Title: "ClearTax: Best Investment Plans", URL: "https://cleartax.in/s/investment-plans"},
		},
	},
}

var defaultResources = []engine.Resource{
	{Title: "ClearTax: All Financial Guides", URL: "https://cleartax.in/"},
	{Title: "BankBazaar: Financial Products and Articles", URL: "https://www.bankbazaar.com/"},
	{Title: "Economic Times: Wealth & Personal Finance", URL: "https://economictimes.indiatimes.com/wealth"},
	{Title: "MoneyControl: Personal Finance News", URL: "https://www.moneycontrol.com/personal-finance/"},
	{Title: "Groww: Financial Education Blog", URL: "https://groww.in/blog"},
}

// DefaultRuleName names the generic list returned when no rule matches.
const DefaultRuleName = "default"

// MatchRule returns the name of the rule that routes topic, or DefaultRuleName.
func MatchRule(topic string) string {
	name, _ := match(topic)
	return name
}

func match(topic string) (string, []engine.Resource) {
	lower := strings.ToLower(topic)
	for _, r := range rules {
		if r.Match(lower) {
			return r.Name, r.Resources
		}
	}
	return DefaultRuleName, defaultResources
}

// Lookup returns the curated resources for topic: always five records, in
// fixed order. The returned slice is a fresh copy.
func Lookup(topic string) []engine.Resource {
	_, resources := match(topic)
	return clone(resources)
}

// Rules returns a copy of the routing table followed by a rule for the
// default list (whose Match is nil).
func Rules() []Rule {
	out := make([]Rule, 0, len(rules)+1)
	for _, r := range rules {
		r.Resources = clone(r.Resources)
		out = append(out, r)
	}
	return append(out, Rule{Name: DefaultRuleName, Resources: clone(defaultResources)})
}

// FallbackURLs lists every distinct URL in the curated table, in table order.
func FallbackURLs() []string {
	seen := make(map[string]bool)
	var urls []string
	for _, r := range Rules() {
		for _, res := range r.Resources {
			if seen[res.URL] {
				continue
			}
			seen[res.URL] = true
			urls = append(urls, res.URL)
		}
	}
	return urls
}

func clone(in []engine.Resource) []engine.Resource {
	out := make([]engine.Resource, len(in))
	copy(out, in)
	return out
}
