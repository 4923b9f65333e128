package sqlinline

const QInsertBanner = `--sql af383eaa-f353-4a0e-a352-796c00f51cc1
insert into banners (user_id, name, image_url, theme, is_ai_generated, template_id, width, height, elements)
values ($1::uuid, $2::text, $3::text, $4::text, $5::boolean, $6::text, $7::int, $8::int, coalesce($9::jsonb, '[]'::jsonb))
returning id::text, created_at;
`

const QListBannersByOwner = `--sql e25cf191-2e9d-4447-83c8-9b18d53614ef
select
    id::text,
    user_id::text,
    coalesce(generation_id::text, '') as generation_id,
    name,
    image_url,
    theme,
    is_ai_generated,
    template_id,
    width,
    height,
    elements,
    created_at
from banners
where user_id = $1::uuid
order by created_at desc, id desc;
`

const QDeleteOwnedBanner = `--sql 4abdde32-a1d2-451f-844f-76789d4d85fd
delete from banners
where id = $1::uuid
  and user_id = $2::uuid;
`

const QCountBanners = `--sql d464eae8-6516-43b7-9974-e23645c2d3fd
select count(*)
from banners
where user_id = $1::uuid;
`

const QCountAIBanners = `--sql 44421314-618c-4ebd-98bf-dcad28143c9b
select count(*)
from banners
where user_id = $1::uuid
  and is_ai_generated;
`

const QCountTemplateBanners = `--sql c3c2abc4-6c9c-4b08-95f7-d9b6a3fe08a3
select count(*)
from banners
where user_id = $1::uuid
  and template_id is not null;
`
