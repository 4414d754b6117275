package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yachiey/ocr-final/internal/entity"
)

var _ = Describe("Decode", func() {
	var (
		raw      string
		result   *entity.Extraction
		degraded bool
	)

	JustBeforeEach(func() {
		result, degraded = Decode(raw)
	})

	When("the raw text is clean JSON", func() {
		BeforeEach(func() {
			raw = `{
				"merchant": {"name": "SM Supermarket", "address": "Makati City", "branch": null, "phone": null, "tax_id": null},
				"transaction": {"date": "2026-02-20", "time": "14:32", "invoice_number": "0012345", "order_number": null, "terminal": "T-03"},
				"items": [{"name": "Milk 1L", "quantity": 2, "unit_price": 85.5, "total_price": 171}],
				"totals": {"subtotal": 171, "tax": null, "vat_amount": 18.32, "vatable_sales": 152.68, "total": 171, "currency": "PHP"},
				"payment": {"method": "CASH", "card_last4": null, "authorization_code": null, "reference_number": null, "status": "PAID"},
				"lines": ["SM SUPERMARKET", "MILK 1L  2 @ 85.50  171.00"],
				"full_text": "SM SUPERMARKET\nMILK 1L  2 @ 85.50  171.00"
			}`
		})

		It("should not degrade", func() {
			Expect(degraded).To(BeFalse())
		})

		It("should fill the merchant section", func() {
			Expect(result.Merchant.Name).To(HaveValue(Equal("SM Supermarket")))
			Expect(result.Merchant.Address).To(HaveValue(Equal("Makati City")))
			Expect(result.Merchant.Branch).To(BeNil())
		})

		It("should keep item order and values", func() {
			Expect(result.Items).To(HaveLen(1))
			Expect(result.Items[0].Name).To(Equal("Milk 1L"))
			Expect(result.Items[0].Quantity).To(HaveValue(Equal(2.0)))
			Expect(result.Items[0].TotalPrice).To(HaveValue(Equal(171.0)))
		})

		It("should fill totals", func() {
			Expect(result.Totals.VATAmount).To(HaveValue(Equal(18.32)))
			Expect(result.Totals.Currency).To(Equal("PHP"))
		})

		It("should keep the line sequence", func() {
			Expect(result.Lines).To(Equal([]string{"SM SUPERMARKET", "MILK 1L  2 @ 85.50  171.00"}))
		})
	})

	When("the JSON is wrapped in a markdown fence", func() {
		BeforeEach(func() {
			raw = "```json\n{\"totals\": {\"total\": 99.5, \"currency\": \"USD\"}, \"full_text\": \"x\"}\n```"
		})

		It("should not degrade", func() {
			Expect(degraded).To(BeFalse())
		})

		It("should decode the same object as the unwrapped content", func() {
			unwrapped, _ := Decode(`{"totals": {"total": 99.5, "currency": "USD"}, "full_text": "x"}`)
			Expect(result).To(Equal(unwrapped))
		})
	})

	When("the JSON is wrapped in prose", func() {
		BeforeEach(func() {
			raw = `Here is the extracted data: {"totals": {"total": 50, "currency": null}, "full_text": ""} Hope this helps!`
		})

		It("should not degrade", func() {
			Expect(degraded).To(BeFalse())
		})

		It("should parse the brace-delimited span", func() {
			Expect(result.Totals.Total).To(HaveValue(Equal(50.0)))
		})
	})

	When("money fields arrive as numeric strings", func() {
		BeforeEach(func() {
			raw = `{"totals": {"subtotal": "150.00", "tax": "15", "total": "abc", "vat_amount": null, "vatable_sales": null, "currency": ""}}`
		})

		It("should coerce numeric strings and null out the rest", func() {
			Expect(result.Totals.Subtotal).To(HaveValue(Equal(150.0)))
			Expect(result.Totals.Tax).To(HaveValue(Equal(15.0)))
			Expect(result.Totals.Total).To(BeNil())
		})
	})

	When("the raw text is not JSON at all", func() {
		BeforeEach(func() {
			raw = "Sorry, I could not read the image."
		})

		It("should degrade", func() {
			Expect(degraded).To(BeTrue())
		})

		It("should pass the raw text through as full_text", func() {
			Expect(result.FullText).To(Equal(raw))
		})

		It("should return empty typed sections", func() {
			Expect(result.Items).To(BeEmpty())
			Expect(result.Lines).To(BeEmpty())
			Expect(result.Totals.Total).To(BeNil())
			Expect(result.Merchant.Name).To(BeNil())
		})
	})

	When("the JSON parses but is not an object", func() {
		BeforeEach(func() {
			raw = `[1, 2, 3]`
		})

		It("should degrade to the raw-text shape", func() {
			Expect(degraded).To(BeTrue())
			Expect(result.FullText).To(Equal(raw))
		})
	})

	When("the JSON is a bare null", func() {
		BeforeEach(func() {
			raw = `null`
		})

		It("should degrade to the raw-text shape", func() {
			Expect(degraded).To(BeTrue())
			Expect(result.FullText).To(Equal(raw))
		})
	})

	When("lines is present but empty", func() {
		BeforeEach(func() {
			raw = `{"lines": [], "full_text": "kept"}`
		})

		It("should keep a non-nil empty slice", func() {
			Expect(result.Lines).NotTo(BeNil())
			Expect(result.Lines).To(BeEmpty())
		})
	})

	When("lines is absent", func() {
		BeforeEach(func() {
			raw = `{"full_text": "kept"}`
		})

		It("should leave lines nil", func() {
			Expect(result.Lines).To(BeNil())
		})
	})
})
