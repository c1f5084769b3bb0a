package domain

type CostModel string

const (
	CostModelCPC  CostModel = "CPC"
	CostModelCPM  CostModel = "CPM"
	CostModelCPA  CostModel = "CPA"
	CostModelFlat CostModel = "FLAT"
)

type Channel struct {
	ID        int64
	Name      string
	Type      string
	CostModel CostModel
}
