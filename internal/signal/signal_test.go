package signal

import "testing"

func validSignal() Signal {
	return Signal{
		"multileg": true,
		"type":     TypeEntry,
		"strategy": map[string]interface{}{
			"type": "IronCondor",
			"tag":  "DEFAULT",
		},
		"instrument": map[string]interface{}{
			"symbol":  "NIFTY",
			"lots":    1,
			"product": ProductIntraday,
		},
	}
}

func TestValidate(t *testing.T) {
	if !Validate(validSignal()) {
		t.Error("expected valid signal to pass validation")
	}
}

func TestValidate_MissingMultileg(t *testing.T) {
	sig := validSignal()
	delete(sig, "multileg")
	if Validate(sig) {
		t.Error("expected signal without multileg to fail")
	}
}

func TestValidate_MultilegNotBool(t *testing.T) {
	sig := validSignal()
	sig["multileg"] = "true"
	if Validate(sig) {
		t.Error("expected non-boolean multileg to fail")
	}
}

func TestValidate_StrategyNotMapping(t *testing.T) {
	sig := validSignal()
	sig["strategy"] = "IronCondor"
	if Validate(sig) {
		t.Error("expected non-mapping strategy to fail")
	}
}

func TestValidate_InstrumentMissingSymbol(t *testing.T) {
	sig := validSignal()
	sig["instrument"] = map[string]interface{}{"lots": 1}
	if Validate(sig) {
		t.Error("expected instrument without symbol to fail")
	}
}

func TestNewEntry(t *testing.T) {
	sig := NewEntry("IronCondor", "DEFAULT", "NIFTY", 2, ProductCarry, map[string]interface{}{"width": 100})

	if sig["multileg"] != true {
		t.Errorf("multileg = %v, want true", sig["multileg"])
	}
	if sig["type"] != TypeEntry {
		t.Errorf("type = %v, want %s", sig["type"], TypeEntry)
	}
	if sig["id"] == "" || sig["id"] == nil {
		t.Error("expected id to be set")
	}

	strategy := sig["strategy"].(map[string]interface{})
	if strategy["type"] != "IronCondor" {
		t.Errorf("strategy.type = %v, want IronCondor", strategy["type"])
	}
	if strategy["tag"] != "DEFAULT" {
		t.Errorf("strategy.tag = %v, want DEFAULT", strategy["tag"])
	}

	instrument := sig["instrument"].(map[string]interface{})
	if instrument["symbol"] != "NIFTY" {
		t.Errorf("instrument.symbol = %v, want NIFTY", instrument["symbol"])
	}
	if instrument["lots"] != 2 {
		t.Errorf("instrument.lots = %v, want 2", instrument["lots"])
	}
	if instrument["product"] != ProductCarry {
		t.Errorf("instrument.product = %v, want %s", instrument["product"], ProductCarry)
	}

	params := sig["parameters"].(map[string]interface{})
	if params["width"] != 100 {
		t.Errorf("parameters.width = %v, want 100", params["width"])
	}

	if !Validate(sig) {
		t.Error("expected built entry signal to validate")
	}
}

func TestNewExit(t *testing.T) {
	sig := NewExit("IronCondor", "DEFAULT", "NIFTY", 2, ProductCarry)

	if sig["type"] != TypeExit {
		t.Errorf("type = %v, want %s", sig["type"], TypeExit)
	}
	if _, ok := sig["parameters"]; ok {
		t.Error("expected exit signal to carry no parameters")
	}
	if !Validate(sig) {
		t.Error("expected built exit signal to validate")
	}
}

func TestNewEntry_UniqueIDs(t *testing.T) {
	a := NewEntry("IronCondor", "A", "NIFTY", 1, ProductIntraday, nil)
	b := NewEntry("IronCondor", "A", "NIFTY", 1, ProductIntraday, nil)
	if a["id"] == b["id"] {
		t.Error("expected distinct ids across builds")
	}
}
