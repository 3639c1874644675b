package health

// Onboarding tracks whether the welcome screen has been dismissed.
// It never gates anything.
type Onboarding struct {
	storage Storage
}

func NewOnboarding(s Storage) *Onboarding {
	return &Onboarding{storage: s}
}

func (o *Onboarding) Complete() bool {
	v, _, err := o.storage.Get(OnboardingKey)
	return err == nil && v == "true"
}

func (o *Onboarding) MarkComplete() error {
	return o.storage.Set(OnboardingKey, "true")
}
