package ports

type RefreshMetrics interface {
	RecordRefresh(pets, unknownAbilities int)
	RecordRefreshFailure()
}

type IngestMetrics interface {
	RecordIngest(pets, crops int)
	RecordIngestFailure()
}

type ValuationOutcome string

const (
	ValuationHit     ValuationOutcome = "hit"
	ValuationRebuild ValuationOutcome = "rebuild"
	ValuationFailure ValuationOutcome = "failure"
)

type ValuationMetrics interface {
	RecordValuation(outcome ValuationOutcome)
}
