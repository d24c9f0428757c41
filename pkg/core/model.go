package core

// DBStores contains collection of jira-reporter dbstores
type DBStores struct {
	JobConfigStore JobConfigStore
	TestIssueStore TestIssueStore
}

// Services contains collection of jira-reporter services
type Services struct {
	JobConfigService         JobConfigService
	TrackerValidationService TrackerValidationService
}
