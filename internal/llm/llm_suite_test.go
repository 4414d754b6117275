package llm

import (
	"encoding/base64"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLLM(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "LLM Suite")
}

var _ = Describe("EncodeDataURL", func() {
	It("should embed the mime type and base64 payload", func() {
		got := EncodeDataURL([]byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
		Expect(got).To(HavePrefix("data:image/png;base64,"))

		payload := strings.TrimPrefix(got, "data:image/png;base64,")
		decoded, err := base64.StdEncoding.DecodeString(payload)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(Equal([]byte{0x89, 0x50, 0x4e, 0x47}))
	})

	It("should drop content-type parameters", func() {
		got := EncodeDataURL([]byte("x"), "image/jpeg; charset=binary")
		Expect(got).To(HavePrefix("data:image/jpeg;base64,"))
	})

	It("should fall back to octet-stream for unknown types", func() {
		Expect(EncodeDataURL([]byte("x"), "")).To(HavePrefix("data:application/octet-stream;base64,"))
		Expect(EncodeDataURL([]byte("x"), "garbage")).To(HavePrefix("data:application/octet-stream;base64,"))
	})
})

var _ = Describe("ExtractionPrompt", func() {
	It("should embed the totals schema fields", func() {
		for _, field := range []string{"subtotal", "tax", "vat_amount", "vatable_sales", "total", "currency"} {
			Expect(ExtractionPrompt).To(ContainSubstring(`"` + field + `"`))
		}
	})

	It("should demand JSON-only output", func() {
		Expect(ExtractionPrompt).To(ContainSubstring("Return ONLY valid JSON"))
	})

	It("should carry the VAT-inclusive total rule", func() {
		Expect(ExtractionPrompt).To(ContainSubstring("Do NOT add VAT again"))
	})
})
