package browser

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"
	errs "socialharvest/pkg/errors"
)

// The scroll and snapshot scripts report a detached node instead of
// failing, so a replaced container surfaces as ErrRegionLost.
const (
	scrollByJS = `function (fraction) {
		if (!this.isConnected) return { lost: true };
		this.scrollTop = this.scrollTop + this.clientHeight * fraction;
		return { lost: false, scrollTop: this.scrollTop, clientHeight: this.clientHeight };
	}`
	outerHTMLJS = `function () {
		return this.isConnected ? this.outerHTML : null;
	}`
)

// scrollMetrics is what scrollByJS reports back
type scrollMetrics struct {
	Lost         bool
	ScrollTop    float64
	ClientHeight float64
}

func readMetrics(v gson.JSON) scrollMetrics {
	return scrollMetrics{
		Lost:         v.Get("lost").Bool(),
		ScrollTop:    v.Get("scrollTop").Num(),
		ClientHeight: v.Get("clientHeight").Num(),
	}
}

// region is a scrollable element of the live page
type region struct {
	selector string
	el       *rod.Element
}

func (r *region) ScrollBy(ctx context.Context, fraction float64) error {
	res, err := r.el.Context(ctx).Eval(scrollByJS, fraction)
	if err != nil {
		return lost("scroll", r.selector, err)
	}
	m := readMetrics(res.Value)
	if m.Lost {
		return errs.New(errs.ErrorTypeRegionLost, "scroll", r.selector+" is detached", nil)
	}
	if m.ClientHeight == 0 {
		return errs.New(errs.ErrorTypeRegionLost, "scroll", r.selector+" is not rendered", nil)
	}
	return nil
}

func (r *region) Snapshot(ctx context.Context) (string, error) {
	res, err := r.el.Context(ctx).Eval(outerHTMLJS)
	if err != nil {
		return "", lost("snapshot", r.selector, err)
	}
	if res.Value.Nil() {
		return "", errs.New(errs.ErrorTypeRegionLost, "snapshot", r.selector+" is detached", nil)
	}
	return res.Value.Str(), nil
}

// lost reports any failure to reach the element as a lost region, keeping
// the classified cause
func lost(op, selector string, err error) error {
	return errs.New(errs.ErrorTypeRegionLost, op, selector, classify(op, err))
}
