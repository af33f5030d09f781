package viewmodels

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
)

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsWarning          bool
	IsHtmx             bool
	JavascriptIncludes []rendering.JavascriptInclude
}

func NewBaseViewModel(r *http.Request) BaseViewModel {
	return BaseViewModel{
		IsHtmx:             httphelpers.IsHtmx(r),
		JavascriptIncludes: []rendering.JavascriptInclude{},
	}
}
