package kernel

func (rt *RequestRuntime) BindJSON(obj any) {
	if err := rt.RequestContext.ShouldBindJSON(obj); err != nil {
		_ = rt.MakeErrorf("failed to bind json: %v", err)
	}
}
