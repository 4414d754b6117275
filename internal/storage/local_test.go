package storage

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir string
		store  Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		store, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		It("should write the file and return its name", func() {
			name, err := store.Save("receipt.jpg", []byte("image bytes"))
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("receipt.jpg"))

			onDisk, err := os.ReadFile(filepath.Join(tmpDir, "receipt.jpg"))
			Expect(err).NotTo(HaveOccurred())
			Expect(onDisk).To(Equal([]byte("image bytes")))
		})
	})

	Describe("Get", func() {
		It("should return saved content", func() {
			_, err := store.Save("a.png", []byte("png"))
			Expect(err).NotTo(HaveOccurred())

			data, err := store.Get("a.png")
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("png")))
		})

		It("should fail for a missing file", func() {
			_, err := store.Get("missing.png")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("should remove the file", func() {
			_, err := store.Save("gone.png", []byte("x"))
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Delete("gone.png")).To(Succeed())
			_, err = store.Get("gone.png")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("ContentFilename", func() {
	It("should be stable for the same bytes", func() {
		a := ContentFilename([]byte("same"), "jpg")
		b := ContentFilename([]byte("same"), "jpg")
		Expect(a).To(Equal(b))
		Expect(a).To(HaveSuffix(".jpg"))
	})

	It("should differ for different bytes", func() {
		Expect(ContentFilename([]byte("one"), "")).NotTo(Equal(ContentFilename([]byte("two"), "")))
	})
})
