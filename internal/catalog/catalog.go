package catalog

// PackageSpec is the immutable description of a purchasable token package.
// Payments copy these fields at creation time, so later catalog edits never
// change the economics of an open or settled payment.
type PackageSpec struct {
	ID          string `mapstructure:"id" json:"id"`
	DisplayName string `mapstructure:"name" json:"name"`
	Tokens      int64  `mapstructure:"tokens" json:"tokens"`
	Price       int64  `mapstructure:"price" json:"price"`
}

type Catalog interface {
	Get(packageID string) (PackageSpec, bool)
	All() []PackageSpec
}

type catalog struct {
	packages map[string]PackageSpec
	order    []string
}

// New builds a read-only catalog. With no packages configured the default
// package set is used.
func New(packages []PackageSpec) Catalog {
	if len(packages) == 0 {
		packages = defaultPackages()
	}

	c := &catalog{packages: make(map[string]PackageSpec, len(packages))}
	for _, p := range packages {
		if _, exists := c.packages[p.ID]; exists {
			continue
		}
		c.packages[p.ID] = p
		c.order = append(c.order, p.ID)
	}

	return c
}

func (c *catalog) Get(packageID string) (PackageSpec, bool) {
	p, ok := c.packages[packageID]
	return p, ok
}

func (c *catalog) All() []PackageSpec {
	out := make([]PackageSpec, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.packages[id])
	}
	return out
}

func defaultPackages() []PackageSpec {
	return []PackageSpec{
		{ID: "basic", DisplayName: "Basic Package", Tokens: 10, Price: 50000},
		{ID: "pro", DisplayName: "Pro Package", Tokens: 25, Price: 100000},
		{ID: "premium", DisplayName: "Premium Package", Tokens: 50, Price: 180000},
	}
}
