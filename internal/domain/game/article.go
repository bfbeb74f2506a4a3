package game

// Well-known article ids. The game's article taxonomy is static reference data
// delivered with the definitions payload; only the currencies need compile-time names.
const (
	ArticleXP   = 1
	ArticleGem  = 2
	ArticleGold = 3
)

// Article type discriminants. Only material (2) and train-part (3) articles consume
// warehouse space; currencies and city-plan pieces do not.
const (
	ArticleTypeCurrency  = 1
	ArticleTypeMaterial  = 2
	ArticleTypeTrainPart = 3
	ArticleTypePlanPiece = 4
)

// Article is a static game-defined resource type
type Article struct {
	ID    int
	Name  string
	Level int
	Type  int
	Era   int
}

// ConsumesSpace reports whether stock of this article counts against warehouse capacity
func (a *Article) ConsumesSpace() bool {
	return a.Type == ArticleTypeMaterial || a.Type == ArticleTypeTrainPart
}

// RewardItem is one reward or condition line: an article and an amount.
// The wire payload tags article lines with discriminant 8 under "Items"; anything
// decoded into a RewardItem has already passed that filter at ingestion time.
type RewardItem struct {
	ArticleID int `json:"Id"`
	Amount    int `json:"Amount"`
}

// ArticleAmounts maps article id to a quantity. Used for requirements, earmarks
// and planning ledgers throughout the strategy layer.
type ArticleAmounts map[int]int

// Add credits amount onto the entry for articleID
func (m ArticleAmounts) Add(articleID, amount int) {
	m[articleID] += amount
}

// Clone returns an independent copy
func (m ArticleAmounts) Clone() ArticleAmounts {
	out := make(ArticleAmounts, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// warehouseCapacityByLevel is the static warehouse-level table from the game
// definitions. Level 1 is index 1.
var warehouseCapacityByLevel = []int{
	0, 60, 120, 195, 285, 390, 510, 645, 795, 960, 1140,
	1335, 1545, 1770, 2010, 2265, 2535, 2820, 3120, 3435, 3765,
	4110, 4470, 4845, 5235, 5640, 6060, 6495, 6945, 7410, 7890,
	8385, 8895, 9420, 9960, 10515,
}

// WarehouseCapacityForLevel returns the max warehouse capacity at the given level.
// Levels beyond the table stay at the top tier.
func WarehouseCapacityForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	if level >= len(warehouseCapacityByLevel) {
		return warehouseCapacityByLevel[len(warehouseCapacityByLevel)-1]
	}
	return warehouseCapacityByLevel[level]
}

// WarehouseEntry is the per-version stock of one article
type WarehouseEntry struct {
	ArticleID int
	Amount    int
}
