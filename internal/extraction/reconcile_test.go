package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yachiey/ocr-final/internal/entity"
)

func f(v float64) *float64 { return &v }

func s(v string) *string { return &v }

var _ = Describe("Reconcile", func() {
	var res *entity.Extraction

	JustBeforeEach(func() {
		Reconcile(res, "PHP")
	})

	When("totals are missing but items are present", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Items: []entity.Item{
					{Name: "A", TotalPrice: f(100)},
					{Name: "B", TotalPrice: f(50)},
				},
				Totals: entity.Totals{Tax: f(15)},
			}
		})

		It("should compute total from the item sum plus tax", func() {
			Expect(res.Totals.Total).To(HaveValue(Equal(165.0)))
		})

		It("should derive subtotal from the computed total", func() {
			Expect(res.Totals.Subtotal).To(HaveValue(Equal(150.0)))
		})
	})

	When("an item has only a unit price", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Items: []entity.Item{
					{Name: "A", TotalPrice: f(100)},
					{Name: "B", UnitPrice: f(25)},
				},
				Totals: entity.Totals{},
			}
		})

		It("should count the unit price in the item sum", func() {
			Expect(res.Totals.Total).To(HaveValue(Equal(125.0)))
			Expect(res.Totals.Subtotal).To(HaveValue(Equal(125.0)))
		})
	})

	When("the model duplicated the total into subtotal", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Totals: entity.Totals{
					Subtotal:     f(200),
					Tax:          f(20),
					Total:        f(200),
					VATableSales: f(180),
				},
			}
		})

		It("should adopt VATable sales as the subtotal", func() {
			Expect(res.Totals.Subtotal).To(HaveValue(Equal(180.0)))
		})

		It("should keep the stated total", func() {
			Expect(res.Totals.Total).To(HaveValue(Equal(200.0)))
		})
	})

	When("the model swapped total and subtotal", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Totals: entity.Totals{
					Subtotal: f(500),
					Tax:      f(50),
					Total:    f(450),
				},
			}
		})

		It("should swap the two fields back", func() {
			Expect(res.Totals.Total).To(HaveValue(Equal(500.0)))
			Expect(res.Totals.Subtotal).To(HaveValue(Equal(450.0)))
		})
	})

	When("totals are already consistent", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Totals: entity.Totals{
					Subtotal: f(150),
					Tax:      f(15),
					Total:    f(165),
				},
			}
		})

		It("should change nothing", func() {
			Expect(res.Totals.Subtotal).To(HaveValue(Equal(150.0)))
			Expect(res.Totals.Total).To(HaveValue(Equal(165.0)))
		})
	})

	When("VATable sales plus VAT equals the total", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Totals: entity.Totals{
					Subtotal:     f(171),
					VATAmount:    f(18.32),
					VATableSales: f(152.68),
					Total:        f(171),
				},
			}
		})

		It("should force subtotal to VATable sales", func() {
			Expect(res.Totals.Subtotal).To(HaveValue(Equal(152.68)))
			Expect(res.Totals.Total).To(HaveValue(Equal(171.0)))
		})
	})

	When("only the total is known", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Totals: entity.Totals{
					Total:     f(220),
					VATAmount: f(20),
				},
			}
		})

		It("should derive subtotal as total minus effective tax", func() {
			Expect(res.Totals.Subtotal).To(HaveValue(Equal(200.0)))
		})
	})

	When("nothing is resolvable", func() {
		BeforeEach(func() {
			res = &entity.Extraction{Totals: entity.Totals{}}
		})

		It("should leave total and subtotal null", func() {
			Expect(res.Totals.Total).To(BeNil())
			Expect(res.Totals.Subtotal).To(BeNil())
		})
	})

	When("currency is missing and the address names a known city", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Merchant: entity.Merchant{Address: s("123 Ayala Ave, Makati City")},
				Totals:   entity.Totals{},
			}
		})

		It("should infer the currency from the address", func() {
			Expect(res.Totals.Currency).To(Equal("PHP"))
		})
	})

	When("currency is missing and the address is absent", func() {
		BeforeEach(func() {
			res = &entity.Extraction{Totals: entity.Totals{}}
		})

		It("should fall back to the configured market currency", func() {
			Expect(res.Totals.Currency).To(Equal("PHP"))
		})
	})

	When("currency is already set", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Merchant: entity.Merchant{Address: s("Makati City")},
				Totals:   entity.Totals{Currency: "USD"},
			}
		})

		It("should keep the model's currency", func() {
			Expect(res.Totals.Currency).To(Equal("USD"))
		})
	})

	When("lines are present", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Lines:    []string{"A", "B", "C"},
				FullText: "stale",
				Totals:   entity.Totals{},
			}
		})

		It("should rebuild full_text from the lines", func() {
			Expect(res.FullText).To(Equal("A\nB\nC"))
		})
	})

	When("lines are present but empty and full_text is empty", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				Lines:  []string{},
				Totals: entity.Totals{},
			}
		})

		It("should leave full_text empty", func() {
			Expect(res.FullText).To(Equal(""))
		})
	})

	When("lines are absent", func() {
		BeforeEach(func() {
			res = &entity.Extraction{
				FullText: "as decoded",
				Totals:   entity.Totals{},
			}
		})

		It("should keep the decoded full_text", func() {
			Expect(res.FullText).To(Equal("as decoded"))
		})
	})

	Describe("idempotence", func() {
		cases := []*entity.Extraction{
			{
				Items:  []entity.Item{{Name: "A", TotalPrice: f(100)}, {Name: "B", TotalPrice: f(50)}},
				Totals: entity.Totals{Tax: f(15)},
			},
			{
				Totals: entity.Totals{Subtotal: f(200), Tax: f(20), Total: f(200), VATableSales: f(180)},
			},
			{
				Totals: entity.Totals{Subtotal: f(500), Tax: f(50), Total: f(450)},
			},
			{
				Totals: entity.Totals{},
			},
		}

		BeforeEach(func() {
			res = &entity.Extraction{Totals: entity.Totals{}}
		})

		It("should yield the same output when applied twice", func() {
			for _, c := range cases {
				once := Reconcile(c, "PHP")
				snapshot := *once
				snapTotals := snapshot.Totals
				twice := Reconcile(once, "PHP")
				Expect(twice.Totals).To(Equal(snapTotals))
				Expect(twice.FullText).To(Equal(snapshot.FullText))
			}
		})
	})
})
